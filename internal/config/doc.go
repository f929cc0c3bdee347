// Package config provides local configuration for indexrank.
//
// Settings live in a single JSON file, by default .indexrank/config.json in
// the working directory:
//
//	{
//	  "endpoint": "es.internal:9200",
//	  "scheme": "https",
//	  "username": "reader",
//	  "password": "${ES_PASSWORD}",
//	  "cat_path": "/_cat/indices",
//	  "timeout_seconds": 30,
//	  "days": 7,
//	  "snapshot_path": "testdata/input.json",
//	  "top_n": 5,
//	  "target_shard_gb": 30,
//	  "format": "text"
//	}
//
// Environment Variable Support:
//
// The endpoint, username, password and snapshot_path values can reference
// environment variables using $VAR or ${VAR} syntax. Unset variables are left
// as written.
//
// A missing file is not an error; the defaults apply. Command-line flags
// override whatever the file says.
//
// Example usage:
//
//	manager := config.NewManager(config.DefaultPath("."))
//	if err := manager.Load(); err != nil {
//		log.Fatal(err)
//	}
//
//	cfg := manager.Get()
//	fmt.Println("Endpoint:", cfg.Endpoint)
package config
