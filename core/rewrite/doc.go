// Package rewrite implements the streaming HTML rewriter that injects the
// client-side enforcement markup into outgoing responses.
//
// The response body arrives as an arbitrary sequence of variable-size,
// unaligned chunks. The Injector locates the opening <body ...> tag and the
// closing </body> marker with a case-insensitive scan, splices a <noscript>
// warning right after the former and a <script> block right after the
// latter, and forwards every other byte untouched, without ever buffering
// the response. Markers split across chunk boundaries are caught by a small
// carry window (CarrySize bytes) withheld between chunks.
//
// # Usage
//
//	in := rewrite.NewInjector(
//		rewrite.NoScriptPayload("enable JavaScript"),
//		rewrite.ScriptPayload(scriptURL, tokenName, patterns),
//	)
//
//	for chunk := range chunks {
//		for _, c := range in.Rewrite(chunk) {
//			forward(c)
//		}
//	}
//	forward(in.Flush()) // release any withheld tail bytes
//
// The package is transport-agnostic; the middleware package adapts it to
// http.ResponseWriter and handles content-type gating and Content-Length
// compensation.
package rewrite
