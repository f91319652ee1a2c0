package cmd

import (
	"net"
	"net/http"

	"github.com/murmur-app/murmur/internal/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func cmdService() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "service",
		Aliases: []string{"s", "serve", "standalone", "server"},
		PreRunE: func(_ *cobra.Command, _ []string) error {
			logger = logger.With("mode", config.ModeService)
			logger.Info("spawning...")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			relayRuntime, err := setup(cmd)
			if err != nil {
				return err
			}

			logger.Debug("creating HTTP server...")
			h := http.NewServeMux()
			h.HandleFunc(config.Service.Path, relayRuntime.ServeHTTP)
			h.Handle("/metrics", promhttp.Handler())
			h.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			s := &http.Server{
				Handler:      h,
				Addr:         net.JoinHostPort(config.Service.Addr, config.Service.Port),
				WriteTimeout: config.Service.Timeout,
				ReadTimeout:  config.Service.Timeout,
				IdleTimeout:  config.Service.Timeout,
			}

			logger.Info("serving...", "address", s.Addr, "path", config.Service.Path, "timeout", config.Service.Timeout.String())
			return s.ListenAndServe()
		},
	}

	bindEnvMap(cmd, svcEnvMapString)
	bindEnvMap(cmd, svcEnvMapDuration)

	return cmd
}
