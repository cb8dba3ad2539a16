// Package foldcall provides a Go client for a locally hosted
// AlphaFold2-Multimer prediction service.
//
// The service exposes two JSON endpoints: one computes multiple sequence
// alignments for raw sequences, the other predicts a structure from
// precomputed alignments and templates. Every call returns an Outcome.
// A non-2xx response is a failure Outcome, not an error; errors are
// reserved for transport failures, undecodable success bodies and, with
// strict validation enabled, malformed requests.
//
//	client, _ := foldcall.New(foldcall.WithBaseURL("http://localhost:8000"))
//	defer client.Close()
//
//	out, err := client.SubmitMSAPrediction(ctx,
//	    []string{"MKTAYIAKQR", "GSHMLEDPVA"},
//	    []string{"uniref90", "mgnify", "small_bfd"},
//	)
//	switch {
//	case errors.Is(err, foldcall.ErrTransport):
//	    // service unreachable
//	case !out.IsSuccess():
//	    log.Printf("Request failed: %d %s", out.StatusCode, out.Text)
//	}
//
// # Response cache
//
// Structure prediction can take minutes of GPU time. With WithValkeyCache
// or WithRedisCache, successful responses are stored and identical
// requests are answered from the cache.
package foldcall
