package redact

import (
	"regexp"

	"vibeshield/internal/model"
)

var (
	privateKeyPattern = regexp.MustCompile(`-----BEGIN [A-Z0-9 ]*PRIVATE KEY-----[\s\S]*?-----END [A-Z0-9 ]*PRIVATE KEY-----`)
	bearerPattern     = regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9._~+/=-]{8,}`)
	tokenAssign       = regexp.MustCompile(`(?i)\b(api[_-]?key|secret|token|password|passwd|pwd)\b(\s*[:=]\s*)(["']?)([A-Za-z0-9._~+/=-]{8,})(["']?)`)
	awsAccessKey      = regexp.MustCompile(`\b(A3T|AKIA|ASIA|AGPA|AIDA|ANPA|ANVA|AROA|AIPA)[0-9A-Z]{16}\b`)
	githubToken       = regexp.MustCompile(`\b(gh[pousr]_[A-Za-z0-9]{20,}|github_pat_[A-Za-z0-9_]{22,})\b`)
	vendorKey         = regexp.MustCompile(`\b(sk-[A-Za-z0-9-]{20,}|[sr]k_live_[A-Za-z0-9]{16,}|xox[baprs]-[A-Za-z0-9-]{10,}|SG\.[A-Za-z0-9_-]{22}\.[A-Za-z0-9_-]{43})`)
	credentialURL     = regexp.MustCompile(`(?i)\b((?:mongodb(?:\+srv)?|postgres(?:ql)?|mysql|redis)://)[^\s'"@/]+@`)
)

// Text masks common secret/token patterns in free text such as warnings and
// log lines.
func Text(in string) string {
	out := in
	out = privateKeyPattern.ReplaceAllString(out, "[REDACTED PRIVATE KEY]")
	out = bearerPattern.ReplaceAllString(out, "Bearer [REDACTED]")
	out = tokenAssign.ReplaceAllString(out, `${1}${2}${3}[REDACTED]${5}`)
	out = awsAccessKey.ReplaceAllString(out, "[REDACTED_AWS_ACCESS_KEY]")
	out = githubToken.ReplaceAllString(out, "[REDACTED_GITHUB_TOKEN]")
	out = vendorKey.ReplaceAllString(out, "[REDACTED_API_KEY]")
	out = credentialURL.ReplaceAllString(out, "${1}[REDACTED]@")
	return out
}

func Strings(in []string) []string {
	if len(in) == 0 {
		return in
	}
	out := make([]string, 0, len(in))
	for _, item := range in {
		out = append(out, Text(item))
	}
	return out
}

// Match masks a matched value, keeping a short prefix so the reader can still
// tell which credential it was.
func Match(text string) string {
	const keep = 4
	if len(text) <= 2*keep {
		return "[REDACTED]"
	}
	return text[:keep] + "[REDACTED]"
}

// Issues returns copies of issues with MatchedText masked. The input slice is
// not modified.
func Issues(in []model.Issue) []model.Issue {
	if in == nil {
		return nil
	}
	out := make([]model.Issue, len(in))
	for i, issue := range in {
		issue.MatchedText = Match(issue.MatchedText)
		out[i] = issue
	}
	return out
}
