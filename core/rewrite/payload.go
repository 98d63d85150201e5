package rewrite

import (
	"fmt"
	"strings"
)

// NoScriptPayload builds the <noscript> block injected after the opening
// <body ...> tag, warning users without script execution that the site
// requires it.
func NoScriptPayload(message string) []byte {
	return fmt.Appendf(nil, "\n<noscript>\n%s\n</noscript>", message)
}

// ScriptPayload builds the <script> block injected after </body>. It loads
// the client-side enforcement code from scriptURL, hands it the token field
// name and the GET-validation rule patterns (each individually quoted), and
// triggers initialization on page load.
func ScriptPayload(scriptURL, tokenName string, rulePatterns []string) []byte {
	var rules strings.Builder
	for i, p := range rulePatterns {
		if i > 0 {
			rules.WriteByte(',')
		}
		rules.WriteByte('\'')
		rules.WriteString(p)
		rules.WriteByte('\'')
	}

	return fmt.Appendf(nil, "\n<script type=\"text/javascript\""+
		" src=\"%s\"></script>\n"+
		"<script type=\"text/JavaScript\">\n"+
		"window.onload = function() {\n"+
		"\t  CSRFP.checkForUrls = [%s];\n"+
		"\t  CSRFP.CSRFP_TOKEN = '%s';\n"+
		"\t  csrfprotector_init();\n"+
		"}\n</script>\n",
		scriptURL, rules.String(), tokenName)
}
