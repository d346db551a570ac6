// Package jokeapi provides the HTTP client that fetches random jokes.
//
// # Overview
//
// The client issues a single GET against the configured endpoint (by default
// https://official-joke-api.appspot.com/random_joke) and decodes the JSON
// object it returns into a joke.Joke.
//
// # Client Usage
//
//	client := jokeapi.NewClient(cfg.Endpoint)
//	j, err := client.Fetch(ctx)
//	if err != nil {
//		log.Printf("fetch failed: %v", err)
//	}
//
// # Wire Format
//
//	{"type": "general", "setup": "...", "punchline": "...", "id": 310}
//
// The id and type fields are required and must be an integer and a string.
// setup and punchline are optional. Unknown fields are ignored.
//
// # Error Handling
//
// Every failure is a *FetchError whose Kind is one of:
//
//   - ErrInvalidEndpoint: the endpoint could not be turned into an http(s)
//     URL. No request is made.
//   - ErrTransport: the request failed, the body could not be read, or the
//     server answered with a non-2xx status.
//   - ErrDecode: the body is not a joke object.
//
// Callers test the class with errors.Is and reach the cause with
// errors.Unwrap.
//
// # Request Handling
//
//   - Context controls cancellation; no client timeout is set
//   - Accept: application/json and User-Agent: jokefinder/0.1 are sent
//   - Response bodies are capped at 1 MiB
//   - No retries and no caching
//
// # Thread Safety
//
// A Client holds no mutable state and is safe for concurrent use.
package jokeapi
