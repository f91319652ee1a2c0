package cmd

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/murmur-app/murmur/internal/config"
	"github.com/murmur-app/murmur/internal/handler"
	"github.com/murmur-app/murmur/internal/runtime"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func cmdLambda() *cobra.Command {
	cmd := &cobra.Command{
		Use: "lambda",
		RunE: func(cmd *cobra.Command, _ []string) error {
			relayRuntime, err := setup(cmd)
			if err != nil {
				return errors.Wrap(err, "failed to setup lambda")
			}

			logger.Info("lambda starting...")
			lambda.StartWithOptions(relayRuntime.Lambda,
				lambda.WithContext(cmd.Context()))
			return nil
		},
	}

	bindEnvMap(cmd, lambdaEnvMapString)

	return cmd
}

// setup wires the relay handler and runtime shared by the service and lambda modes.
func setup(cmd *cobra.Command) (*runtime.Runtime, error) {
	logger.Debug("creating relay handler...")
	hdl, err := handler.NewRelayHandler(
		handler.WithAuthMode(config.Slack.AuthMode),
		handler.WithSSMKey(config.Slack.SSMKey),
		handler.WithSigningSecret(config.Slack.SigningSecret),
		handler.WithBotToken(config.Slack.BotToken),
		handler.WithRelayChannel(config.Slack.RelayChannel),
		handler.WithSlackAPIBaseURL(config.Slack.APIBaseURL),
		handler.WithRewriteEnabled(config.Rewrite.Enabled),
		handler.WithRewriteAPIKey(config.Rewrite.APIKey),
		handler.WithRewriteBaseURL(config.Rewrite.BaseURL),
		handler.WithRewriteModel(config.Rewrite.Model),
		handler.WithRewriteTimeout(config.Rewrite.Timeout),
		handler.WithLambdaPayloadType(config.Lambda.PayloadType),
		handler.WithContext(cmd.Context()),
		handler.WithLogger(logger.With("component", "relay-handler")))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create relay handler")
	}

	logger.Debug("creating runtime...")
	return runtime.NewRuntime(hdl,
		runtime.WithLogger(logger.With("component", "runtime"))), nil
}
