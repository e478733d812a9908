// Package config loads client settings for tools built on tcclient.
//
// Settings come from an optional YAML file, an optional .env file and
// TASKCLUSTER_* environment variables, in increasing order of precedence:
//
//	s, err := config.Load(config.WithConfigFile("tcapi.yml"))
//	if err != nil {
//		return err
//	}
//	client, err := httpclient.New(s.ClientConfig("auth", "v1"))
//
// Nested keys map to environment variables by replacing dots with
// underscores, so retry.max_elapsed is TASKCLUSTER_RETRY_MAX_ELAPSED.
package config
