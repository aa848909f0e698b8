package config

type NotifyConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Region   string `yaml:"region"`
	TopicARN string `yaml:"topic_arn"`
}

func loadNotifyConfig() *NotifyConfig {
	return &NotifyConfig{
		Enabled:  getEnvAsBool("NOTIFY_ENABLED", false),
		Region:   getEnv("NOTIFY_SNS_REGION", "us-east-1"),
		TopicARN: getEnv("NOTIFY_SNS_TOPIC_ARN", ""),
	}
}
