package config

// Example usage of the configuration system:
//
// 1. Load configuration with all sources:
//
//     cfg, err := config.Load("", nil)
//     if err != nil {
//         log.Fatal(err)
//     }
//
// 2. Keep the flat constants file of an existing deployment:
//
//     # constants.env
//     HASHTAG=#golang
//     FBAppID=1234
//     FBAppSecret=abcd
//     TWkey=...
//
//     HASHFEED_CONSTANTS_FILE=./constants.env hashfeed serve
//
// 3. Override from the command line:
//
//     flags := map[string]interface{}{
//         "hashtag":   "#gophers",
//         "addr":      ":9000",
//         "log-level": "debug",
//     }
//     cfg, err := config.Load("", flags)
//
// Environment variables all use the HASHFEED_ prefix, for example
// HASHFEED_HASHTAG, HASHFEED_INSTAGRAM_CLIENT_ID, HASHFEED_TWITTER_COUNT.
