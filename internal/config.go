package internal

import (
	"fmt"
	"time"
)

type Config struct {
	Host     string `env:"HOST,required=true"`
	Port     int    `env:"PORT,required=true"`
	GrpcPort int    `env:"GRPC_PORT,required=true"`
	LogLevel string `env:"LOG_LEVEL,required=true"`

	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,required=true"`
	LimitMessages  *int   `env:"LIMIT_MESSAGES"`
	SearchLimit    int    `env:"SEARCH_LIMIT,required=true"`

	OsmobroURL     string        `env:"OSMOBRO_URL,required=true"`
	OsmobroTimeout time.Duration `env:"OSMOBRO_TIMEOUT,required=true"`

	OpenAIAPIKey      string        `env:"OPENAI_API_KEY,required=true"`
	OpenAIModel       string        `env:"OPENAI_MODEL,required=true"`
	OpenAIBaseURL     string        `env:"OPENAI_BASE_URL"`
	CompletionTimeout time.Duration `env:"COMPLETION_TIMEOUT,required=true"`

	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,required=true"`

	DispatchBufferSize   int           `env:"DISPATCH_BUFFER_SIZE,required=true"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,required=true"`
	SinkTimeout          time.Duration `env:"SINK_TIMEOUT,required=true"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,required=true"`
	LowCapacityThreshold int           `env:"LOW_CAPACITY_THRESHOLD,required=true"`

	// NATS publishing is off when NATS_URL is empty
	NatsURL        string `env:"NATS_URL"`
	EventNamespace string `env:"EVENT_NAMESPACE,default=mediator"`

	// Moderation is off when neither CENSORED_WORDS nor stored blacklist words exist
	CensoredWords   string `env:"CENSORED_WORDS"`
	CharReplacement string `env:"CHARACTER_REPLACEMENT,default=*"`

	DebugPort int `env:"DEBUG_PORT,default=8081"`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
