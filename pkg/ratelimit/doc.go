// Package ratelimit throttles inbound feed requests.
//
// Every feed request costs one upstream API call, so the server keeps a
// sliding window per platform and answers 429 once the window is full,
// before the platform's own quota is spent.
//
//	limits := ratelimit.NewKeyed(func() ratelimit.Limiter {
//	    return ratelimit.NewSlidingWindow(60, time.Minute)
//	})
//	l := limits.Get("twitter")
//	if !l.Allow() {
//	    wait := l.RetryAfter()
//	    // reject
//	}
package ratelimit
