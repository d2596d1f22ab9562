// Package instagram provides a client for the Instagram v1 REST API.
//
// Every reply carries a meta object; meta.code == 200 marks success. Any
// other code is turned into an *errors.Error through the shared normalizer,
// so callers see the platform's own error_type (for example OAuthException).
//
// Example usage:
//
//	tr := transport.New(cfg.Transport, log)
//	client := instagram.NewClient(instagram.Credentials{ClientID: id}, tr, log)
//
//	media, err := client.RecentTagMedia(ctx, "golang")
//	if err != nil {
//	    if e, ok := errors.As(err); ok && e.Type == "OAuthException" {
//	        // token expired or revoked
//	    }
//	}
package instagram
