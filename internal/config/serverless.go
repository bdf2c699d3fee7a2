package config

import (
	"os"
)

// ServerlessConfig holds serverless-specific configuration
type ServerlessConfig struct {
	IsServerless bool
	FunctionName string
	Region       string
	Stage        string
}

// GetServerlessConfig returns the serverless configuration of the current process
func GetServerlessConfig() *ServerlessConfig {
	return &ServerlessConfig{
		IsServerless: isRunningServerless(),
		FunctionName: os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
		Region:       os.Getenv("AWS_REGION"),
		Stage:        GetEnv("STAGE", "dev"),
	}
}

// isRunningServerless detects Lambda-compatible runtimes (AWS Lambda, Netlify Functions)
func isRunningServerless() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" || GetEnvAsBool("NETLIFY", false)
}

// IsServerlessMode returns true if running in serverless mode
func IsServerlessMode() bool {
	return isRunningServerless()
}

// GetDeploymentMode returns the current deployment mode
func GetDeploymentMode() string {
	if IsServerlessMode() {
		return "serverless"
	}
	return "server"
}

// AdaptConfigForServerless modifies configuration for serverless deployment
func AdaptConfigForServerless(config *Config) *Config {
	if !IsServerlessMode() {
		return config
	}

	// Function logs are shipped to a collector; keep them machine readable
	config.Log.Format = "json"
	if sc := GetServerlessConfig(); sc.Stage != "" {
		config.Stage = sc.Stage
	}

	return config
}

// GetOptimizedConfig returns configuration optimized for the current deployment mode
func GetOptimizedConfig() (*Config, error) {
	config, err := Load()
	if err != nil {
		return nil, err
	}

	return AdaptConfigForServerless(config), nil
}
