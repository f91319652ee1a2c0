package cmd

import (
	"github.com/murmur-app/murmur/internal/config"
	"github.com/murmur-app/murmur/internal/helpers"
)

var envMapString = map[*string]boundEnvVar[string]{
	&config.Global.Mode: {
		Name:        "mode",
		Description: "The application runtime mode. Possible values are 'service' and 'lambda'",
		Short:       helpers.Ptr("m"),
	},
	&config.Slack.AuthMode: {
		Name:        "slack-auth-mode",
		Description: "Credentials provider. Supported values are 'env' and 'ssm'.",
		Short:       helpers.Ptr("A"),
	},
	&config.Slack.SSMKey: {
		Name:        "slack-ssm-arn",
		Description: "The SSM parameter key to use when fetching the relay credentials",
	},
	&config.Slack.SigningSecret: {
		Name:        "slack-signing-secret",
		Description: "The secret to use when validating incoming slash-command payloads. If not specified, all requests are rejected",
		Env:         helpers.Ptr("SLACK_SIGNING_SECRET"),
	},
	&config.Slack.BotToken: {
		Name:        "slack-bot-token",
		Description: "The bot user OAuth token to use for outbound Slack Web API calls",
		Env:         helpers.Ptr("SLACK_BOT_TOKEN"),
		Hidden:      true,
	},
	&config.Slack.RelayChannel: {
		Name:        "slack-relay-channel",
		Description: "The channel anonymous messages are relayed to",
		Env:         helpers.Ptr("SLACK_RELAY_CHANNEL"),
	},
	&config.Slack.APIBaseURL: {
		Name:        "slack-api-base-url",
		Description: "The base URL of the Slack Web API",
	},
	&config.Rewrite.APIKey: {
		Name:        "rewrite-api-key",
		Description: "The API key for the rewrite backend. Rewriting is skipped when empty",
		Env:         helpers.Ptr("REWRITE_API_KEY"),
		Hidden:      true,
	},
	&config.Rewrite.BaseURL: {
		Name:        "rewrite-base-url",
		Description: "The base URL of the OpenAI-compatible chat completions API",
	},
	&config.Rewrite.Model: {
		Name:        "rewrite-model",
		Description: "The model to use when rewriting submissions",
	},
}

var envMapBool = map[*bool]boundEnvVar[bool]{
	&config.Global.Logging.CallerTrace: {
		Name:        "verbosity-caller-trace",
		Description: "Enable caller trace in logs",
		Short:       helpers.Ptr("V"),
	},
	&config.Rewrite.Enabled: {
		Name:        "rewrite",
		Description: "Enable AI rewrite and commentary of relayed messages",
		Env:         helpers.Ptr("REWRITE_ENABLED"),
	},
}

var envMapCount = map[*int]boundEnvVar[int]{
	&config.Global.Logging.Verbosity: {
		Name:        "verbosity",
		Description: "Increase logger verbosity (default WarnLevel)",
		Short:       helpers.Ptr("v"),
	},
}
