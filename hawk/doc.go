// Package hawk implements the Hawk MAC authentication header scheme used to
// sign API requests: a client derives an HMAC-SHA256 over the request's
// method, host, port, path and payload hash, and the server recomputes it
// from the same shared key.
//
// Signing:
//
//	signer := hawk.NewSigner()
//	err := signer.Sign(req, creds, body)
//
// Verifying:
//
//	v := hawk.NewVerifier(lookup, hawk.WithSkew(time.Minute))
//	creds, hdr, err := v.VerifyRequest(req)
package hawk
