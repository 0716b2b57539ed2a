package linkcheck

import (
	"fmt"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"maroc-actualites/internal/domain/entity"
)

// Reason codes used as metric labels. The human-readable reason lives in
// entity.ValidationResult.Reason.
const (
	codeOK            = "ok"
	codeGenericMatch  = "generic_title_match"
	codeInvalidURL    = "invalid_url"
	codePrivate       = "private_address"
	codeStatus        = "http_status"
	codeMissingTitle  = "missing_title"
	codeErrorKeyword  = "error_keyword"
	codeHomepage      = "homepage_redirect"
	codeTimeout       = "timeout"
	codeNetwork       = "network"
	codeCancelled     = "cancelled"
	minTitleRunes     = 3
	minContentWordLen = 5
)

// errorKeywords are matched as lower-case substrings of the page title.
var errorKeywords = []string{
	"404",
	"410",
	"not found",
	"page not found",
	"introuvable",
	"supprimé",
	"supprimée",
	"deleted",
	"removed",
	"error",
	"erreur",
	"access denied",
	"forbidden",
	"interdit",
	"unavailable",
	"indisponible",
	"oops",
	"gone",
	"page expirée",
	"page does not exist",
}

// genericTitles are whole titles that indicate a publisher home page.
var genericTitles = map[string]struct{}{
	"accueil":      {},
	"home":         {},
	"homepage":     {},
	"bienvenue":    {},
	"welcome":      {},
	"hespress":     {},
	"le360":        {},
	"medias24":     {},
	"telquel":      {},
	"map":          {},
	"l'économiste": {},
}

// verdict pairs a validation result with its metric reason code.
type verdict struct {
	result entity.ValidationResult
	code   string
}

// classifyStatus rejects pages whose status alone proves the link is dead.
// It reports false when the status gives no verdict and the title must be inspected.
func classifyStatus(status int) (verdict, bool) {
	switch {
	case status == http.StatusNotFound || status == http.StatusGone:
		return verdict{entity.Reject(fmt.Sprintf("HTTP %d", status), ""), codeStatus}, true
	case status >= http.StatusInternalServerError:
		return verdict{entity.Reject(fmt.Sprintf("HTTP %d server error", status), ""), codeStatus}, true
	}
	return verdict{}, false
}

// ClassifyTitle decides whether a fetched page is the article it claims to be,
// using only the page title and the title the upstream gave the article.
//
// Rules, in order:
//  1. fewer than 3 runes: "missing page title"
//  2. contains an error keyword: error page
//  3. generic title (known home-page title, or at most two tokens) sharing no word
//     longer than 4 runes with the article title: "redirected to homepage"
func ClassifyTitle(pageTitle, articleTitle string) entity.ValidationResult {
	return classifyTitle(pageTitle, articleTitle).result
}

func classifyTitle(pageTitle, articleTitle string) verdict {
	if utf8.RuneCountInString(strings.TrimSpace(pageTitle)) < minTitleRunes {
		return verdict{entity.Reject("missing page title", pageTitle), codeMissingTitle}
	}

	lower := strings.ToLower(pageTitle)
	for _, kw := range errorKeywords {
		if strings.Contains(lower, kw) {
			return verdict{entity.Reject(fmt.Sprintf("error page detected: %q", kw), pageTitle), codeErrorKeyword}
		}
	}

	if isGenericTitle(lower) {
		if sharesContentWord(lower, articleTitle) {
			return verdict{entity.Accept("generic title matches article", pageTitle), codeGenericMatch}
		}
		return verdict{entity.Reject("redirected to homepage", pageTitle), codeHomepage}
	}

	return verdict{entity.Accept("", pageTitle), codeOK}
}

// isGenericTitle expects a lower-cased, trimmed title.
func isGenericTitle(lower string) bool {
	if _, ok := genericTitles[strings.TrimSpace(lower)]; ok {
		return true
	}
	return len(strings.FieldsFunc(lower, isTitleSeparator)) <= 2
}

func isTitleSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == '|' || r == '-' || r == '–' || r == '—'
}

func isWordSeparator(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	switch r {
	case ',', ';', '.', '!', '?', '\'', '’', '"', '«', '»', '(', ')', '-':
		return true
	}
	return false
}

// sharesContentWord reports whether any article-title word longer than 4 runes
// appears in the lower-cased page title.
func sharesContentWord(lowerPageTitle, articleTitle string) bool {
	for _, w := range strings.FieldsFunc(strings.ToLower(articleTitle), isWordSeparator) {
		if utf8.RuneCountInString(w) < minContentWordLen {
			continue
		}
		if strings.Contains(lowerPageTitle, w) {
			return true
		}
	}
	return false
}
