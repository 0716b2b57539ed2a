package respond

import "regexp"

var (
	// apiKey=..., api_key=... in query strings and log lines.
	apiKeyParamPattern = regexp.MustCompile(`(?i)(api_?key=)[^&\s"]+`)

	// Authorization: Bearer <token>
	bearerPattern = regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9._~+/=-]+`)

	// X-Api-Key / X-Cron-Secret header dumps.
	secretHeaderPattern = regexp.MustCompile(`(?i)(x-(?:api-key|cron-secret):\s*)\S+`)

	// Credentials embedded in URLs.
	userinfoPattern = regexp.MustCompile(`://([^:/@\s]+):([^@\s]+)@`)
)

// SanitizeError returns err's message with credentials masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeString(err.Error())
}

// SanitizeString masks credentials in s.
func SanitizeString(s string) string {
	s = apiKeyParamPattern.ReplaceAllString(s, "${1}****")
	s = bearerPattern.ReplaceAllString(s, "${1}****")
	s = secretHeaderPattern.ReplaceAllString(s, "${1}****")
	s = userinfoPattern.ReplaceAllString(s, "://$1:****@")
	return s
}
