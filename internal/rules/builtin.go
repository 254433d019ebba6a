package rules

import "vibeshield/internal/model"

// Builtins returns the built-in rule table in registry order.
//
// Length floors inside the patterns (8+, 24+, 36, 40, 48+, 80+ characters)
// are precision tuning. Changing one changes what the scanner reports.
func Builtins() []Definition {
	return []Definition{
		// secrets: critical
		{
			ID:       "aws-access-key",
			Name:     "AWS Access Key",
			Pattern:  `['"\x60](AKIA[0-9A-Z]{16})['"\x60]`,
			Severity: model.SeverityCritical,
			Fix:      "AWS access key detected. Remove immediately and rotate in AWS console. Use environment variables or IAM roles.",
		},
		{
			ID:              "aws-secret-key",
			Name:            "AWS Secret Key",
			Pattern:         `aws_?secret_?access_?key\s*[:=]\s*['"\x60]([A-Za-z0-9/+=]{40})['"\x60]`,
			CaseInsensitive: true,
			Severity:        model.SeverityCritical,
			Fix:             "AWS secret key detected. Remove immediately and rotate in AWS console. Use environment variables.",
		},
		{
			ID:       "openai-key",
			Name:     "OpenAI API Key",
			Pattern:  `['"\x60](sk-[A-Za-z0-9]{48,})['"\x60]`,
			Severity: model.SeverityCritical,
			Fix:      "OpenAI API key detected. Remove and rotate at platform.openai.com. Use process.env.OPENAI_API_KEY.",
		},
		{
			ID:       "anthropic-key",
			Name:     "Anthropic API Key",
			Pattern:  `['"\x60](sk-ant-[A-Za-z0-9-]{80,})['"\x60]`,
			Severity: model.SeverityCritical,
			Fix:      "Anthropic API key detected. Remove and rotate at console.anthropic.com. Use process.env.ANTHROPIC_API_KEY.",
		},
		{
			ID:       "stripe-secret",
			Name:     "Stripe Secret Key",
			Pattern:  `['"\x60](sk_live_[A-Za-z0-9]{24,})['"\x60]`,
			Severity: model.SeverityCritical,
			Fix:      "Stripe live secret key detected. Remove and rotate in Stripe dashboard. Use process.env.STRIPE_SECRET_KEY.",
		},
		{
			ID:       "stripe-restricted",
			Name:     "Stripe Restricted Key",
			Pattern:  `['"\x60](rk_live_[A-Za-z0-9]{24,})['"\x60]`,
			Severity: model.SeverityCritical,
			Fix:      "Stripe restricted key detected. Remove and rotate in Stripe dashboard. Use environment variables.",
		},
		{
			ID:       "github-token",
			Name:     "GitHub Token",
			Pattern:  `['"\x60](ghp_[A-Za-z0-9]{36}|github_pat_[A-Za-z0-9_]{22,})['"\x60]`,
			Severity: model.SeverityCritical,
			Fix:      "GitHub token detected. Remove and rotate at github.com/settings/tokens. Use process.env.GITHUB_TOKEN.",
		},
		{
			ID:       "slack-token",
			Name:     "Slack Token",
			Pattern:  `['"\x60](xox[baprs]-[A-Za-z0-9-]{10,})['"\x60]`,
			Severity: model.SeverityCritical,
			Fix:      "Slack token detected. Remove and rotate in Slack app settings. Use environment variables.",
		},
		{
			ID:       "twilio-key",
			Name:     "Twilio API Key",
			Pattern:  `['"\x60](SK[A-Za-z0-9]{32})['"\x60]`,
			Severity: model.SeverityCritical,
			Fix:      "Twilio API key detected. Remove and rotate in Twilio console. Use environment variables.",
		},
		{
			ID:       "sendgrid-key",
			Name:     "SendGrid API Key",
			Pattern:  `['"\x60](SG\.[A-Za-z0-9_-]{22}\.[A-Za-z0-9_-]{43})['"\x60]`,
			Severity: model.SeverityCritical,
			Fix:      "SendGrid API key detected. Remove and rotate in SendGrid dashboard. Use environment variables.",
		},
		{
			// The header alone is enough; key bodies span lines.
			ID:       "private-key",
			Name:     "Private Key",
			Pattern:  `-----BEGIN (?:RSA |EC |DSA |OPENSSH )?PRIVATE KEY-----`,
			Severity: model.SeverityCritical,
			Fix:      "Private key detected in code. Move to a secure file outside repo or use a secrets manager.",
		},

		// secrets: high
		{
			ID:              "hardcoded-secret",
			Name:            "Hardcoded Secret",
			Pattern:         `(?:api_?key|api_?secret|secret_?key|auth_?token|access_?token|private_?key|client_?secret)\s*[:=]\s*['"\x60]([A-Za-z0-9_./+-]{8,})['"\x60]`,
			CaseInsensitive: true,
			Severity:        model.SeverityHigh,
			Fix:             "Move this secret to an environment variable. Add to .env and use process.env.YOUR_SECRET. Add .env to .gitignore.",
		},
		{
			ID:              "hardcoded-password",
			Name:            "Hardcoded Password",
			Pattern:         `(?:password|passwd|pwd)\s*[:=]\s*['"\x60]([^'"\x60\s]{4,})['"\x60]`,
			CaseInsensitive: true,
			Severity:        model.SeverityHigh,
			Fix:             "Move this password to an environment variable. Never commit passwords to version control.",
		},
		{
			ID:              "jwt-secret-inline",
			Name:            "Hardcoded JWT Secret",
			Pattern:         `jwt\.sign\s*\([^)]+,\s*['"\x60]([^'"\x60]{8,})['"\x60]`,
			CaseInsensitive: true,
			Severity:        model.SeverityHigh,
			Fix:             "Move JWT secret to an environment variable. Hardcoded secrets get committed to version control.",
		},
		{
			ID:              "database-url",
			Name:            "Database Connection String",
			Pattern:         `['"\x60]((?:mongodb(?:\+srv)?|postgres(?:ql)?|mysql|redis)://[^'"\x60\s]{10,})['"\x60]`,
			CaseInsensitive: true,
			Severity:        model.SeverityHigh,
			Fix:             "Database connection string with credentials detected. Use process.env.DATABASE_URL.",
		},

		// sql injection
		{
			ID:              "sql-injection-template",
			Name:            "SQL Injection",
			Pattern:         `(?:query|execute)\s*\(\s*\x60(?:SELECT|INSERT|UPDATE|DELETE|DROP)[^\x60]*\$\{`,
			CaseInsensitive: true,
			Severity:        model.SeverityHigh,
			Fix:             "Use parameterized queries instead of template literals. Example: query('SELECT * FROM users WHERE id = ?', [userId])",
		},
		{
			ID:              "sql-injection-concat",
			Name:            "SQL Injection",
			Pattern:         `(?:query|execute)\s*\(\s*['"](?:SELECT|INSERT|UPDATE|DELETE)[^'"]*['"]\s*\+`,
			CaseInsensitive: true,
			Severity:        model.SeverityHigh,
			Fix:             "Never concatenate variables into SQL strings. Use parameterized queries with placeholders.",
		},

		// command injection
		{
			ID:       "command-injection",
			Name:     "Command Injection",
			Pattern:  `(?:exec|execSync)\s*\(\s*\x60[^\x60]*\$\{`,
			Severity: model.SeverityCritical,
			Fix:      "Avoid template literals in shell commands. Use spawn() with an array of arguments.",
		},
		{
			ID:              "command-injection-concat",
			Name:            "Command Injection",
			Pattern:         `(?:exec|execSync)\s*\([^)]*\+\s*(?:req\.|user|input|param|query|body)`,
			CaseInsensitive: true,
			Severity:        model.SeverityCritical,
			Fix:             "User input in shell commands allows arbitrary command execution. Use spawn() with argument arrays.",
		},

		// dynamic code
		{
			ID:              "eval-usage",
			Name:            "Dangerous eval()",
			Pattern:         `[=:]\s*eval\s*\(\s*(?:req\.|user|input|param|query|body|data)`,
			CaseInsensitive: true,
			Severity:        model.SeverityHigh,
			Fix:             "eval() with user input allows arbitrary code execution. Use JSON.parse() for JSON, or refactor to avoid eval.",
		},
		{
			ID:              "new-function",
			Name:            "Dangerous Function Constructor",
			Pattern:         `new\s+Function\s*\([^)]*(?:req\.|user|input|param|query|body)`,
			CaseInsensitive: true,
			Severity:        model.SeverityHigh,
			Fix:             "new Function() with user input is as dangerous as eval(). Refactor to avoid dynamic code generation.",
		},

		// xss
		{
			ID:              "innerhtml-variable",
			Name:            "XSS via innerHTML",
			Pattern:         `\.innerHTML\s*=\s*(?:req\.|user|input|param|query|body|data|props\.|this\.)`,
			CaseInsensitive: true,
			Severity:        model.SeverityHigh,
			Fix:             "Setting innerHTML with user data enables XSS attacks. Use textContent or sanitize with DOMPurify.",
		},
		{
			ID:              "react-dangerous-html",
			Name:            "React XSS Risk",
			Pattern:         `dangerouslySetInnerHTML\s*=\s*\{\s*\{\s*__html\s*:\s*(?:props\.|this\.|data|user|input)`,
			CaseInsensitive: true,
			Severity:        model.SeverityHigh,
			Fix:             "dangerouslySetInnerHTML with user data enables XSS. Sanitize HTML with DOMPurify first.",
		},

		// crypto
		{
			ID:       "weak-hash-md5",
			Name:     "Weak Hash (MD5)",
			Pattern:  `createHash\s*\(\s*['"\x60]md5['"\x60]\s*\)`,
			Severity: model.SeverityMedium,
			Fix:      "MD5 is broken. Use crypto.createHash('sha256'). For passwords, use bcrypt or argon2.",
		},
		{
			ID:       "weak-hash-sha1",
			Name:     "Weak Hash (SHA1)",
			Pattern:  `createHash\s*\(\s*['"\x60]sha1['"\x60]\s*\)`,
			Severity: model.SeverityMedium,
			Fix:      "SHA1 is deprecated for security. Use crypto.createHash('sha256'). For passwords, use bcrypt or argon2.",
		},

		// misconfiguration
		{
			ID:       "ssl-disabled",
			Name:     "SSL Verification Disabled",
			Pattern:  `rejectUnauthorized\s*:\s*false`,
			Severity: model.SeverityMedium,
			Fix:      "Disabling SSL verification allows man-in-the-middle attacks. Remove this or set to true.",
		},
		{
			ID:       "cors-wildcard",
			Name:     "CORS Allows All Origins",
			Pattern:  `['"\x60]Access-Control-Allow-Origin['"\x60]\s*[,:]\s*['"\x60]\*['"\x60]`,
			Severity: model.SeverityMedium,
			Fix:      "CORS wildcard (*) allows any website to make requests. Specify allowed origins explicitly.",
		},

		// file access
		{
			ID:              "path-traversal",
			Name:            "Path Traversal Risk",
			Pattern:         `(?:readFile|writeFile|readFileSync|writeFileSync)\s*\(\s*(?:req\.|user|input|param|query|body)`,
			CaseInsensitive: true,
			Severity:        model.SeverityHigh,
			Fix:             "User input in file paths allows reading/writing arbitrary files. Validate paths with path.resolve() and check they're within allowed directories.",
		},

		// nosql
		{
			ID:       "nosql-where",
			Name:     "NoSQL Injection ($where)",
			Pattern:  `\.(?:find|findOne)\s*\(\s*\{[^}]*\$where\s*:`,
			Severity: model.SeverityHigh,
			Fix:      "$where executes JavaScript and enables NoSQL injection. Use standard MongoDB query operators.",
		},

		// python
		{
			ID:              "pickle-load",
			Name:            "Insecure Pickle (Python)",
			Pattern:         `pickle\.loads?\s*\(\s*(?:request|user|input|data|file)`,
			CaseInsensitive: true,
			Severity:        model.SeverityCritical,
			Fix:             "pickle.load with untrusted data allows arbitrary code execution. Use JSON for untrusted data.",
		},
		{
			ID:              "python-shell",
			Name:            "Shell Injection (Python)",
			Pattern:         `subprocess\.\w+\s*\([^)]*shell\s*=\s*True[^)]*(?:request|user|input|param)`,
			CaseInsensitive: true,
			Severity:        model.SeverityCritical,
			Fix:             "shell=True with user input enables command injection. Pass command as a list without shell=True.",
		},
	}
}
