package review

import "regexp"

// Built-in rule sets. Patterns are deliberately coarse line heuristics; they
// flag review candidates, they do not prove defects.

func securityRules() []Rule {
	return []Rule{
		{
			Type:        "sql_injection",
			Category:    CategorySecurity,
			Severity:    SeverityCritical,
			Pattern:     regexp.MustCompile(`(?i)\b(select\s.+\bfrom\b|insert\s+into\b|update\s+\w+\s+set\b|delete\s+from\b).*(\+|\$\{|%s)`),
			Description: "SQL statement built by string concatenation",
			Suggestion:  "Use parameterized queries or an ORM instead of concatenating user input into SQL",
		},
		{
			Type:        "hardcoded_secret",
			Category:    CategorySecurity,
			Severity:    SeverityHigh,
			Pattern:     regexp.MustCompile(`(?i)(password|passwd|pwd|secret|api[_-]?key|access[_-]?token|credential)\w*\s*[:=]{1,2}\s*["'][^"']{8,}["']`),
			Description: "Credential assigned from a literal value",
			Suggestion:  "Move secrets to environment variables or a secret store",
		},
		{
			Type:        "xss_sink",
			Category:    CategorySecurity,
			Severity:    SeverityHigh,
			Pattern:     regexp.MustCompile(`(?i)(\.innerHTML\s*=|document\.write\s*\(|\beval\s*\(|dangerouslySetInnerHTML)`),
			Description: "Data flows into a DOM or eval sink",
			Suggestion:  "Escape or sanitize dynamic content before rendering; avoid eval",
		},
		{
			Type:        "insecure_random",
			Category:    CategorySecurity,
			Severity:    SeverityMedium,
			Pattern:     regexp.MustCompile(`(?i)(math\.random\s*\(|\bnew Random\s*\(|\brand\s*\(\s*\))`),
			Description: "Non-cryptographic random source",
			Suggestion:  "Use a cryptographically secure random generator for anything security relevant",
		},
		{
			Type:        "weak_crypto",
			Category:    CategorySecurity,
			Severity:    SeverityMedium,
			Pattern:     regexp.MustCompile(`(?i)\b(md5|sha-?1|rc4|\bdes\b|3des|ecb)\b`),
			Description: "Weak hash or cipher primitive",
			Suggestion:  "Prefer SHA-256 or better for hashing and AES-GCM for encryption",
		},
	}
}

func performanceRules() []Rule {
	return []Rule{
		{
			Type:        "inefficient_loop",
			Category:    CategoryPerformance,
			Severity:    SeverityMedium,
			Pattern:     regexp.MustCompile(`(?i)^\s*(for|while)\b.*[({]`),
			Window:      10,
			Description: "Loop body spans many lines",
			Suggestion:  "Extract the loop body or hoist invariant work out of the loop",
		},
		{
			Type:        "blocking_call",
			Category:    CategoryPerformance,
			Severity:    SeverityMedium,
			Pattern:     regexp.MustCompile(`(?i)\b(readFileSync|writeFileSync|execSync|existsSync|time\.sleep|thread\.sleep)\s*\(`),
			Description: "Blocking call on a hot path",
			Suggestion:  "Use the asynchronous variant or move the call off the request path",
		},
		{
			Type:        "select_star",
			Category:    CategoryPerformance,
			Severity:    SeverityMedium,
			Pattern:     regexp.MustCompile(`(?i)select\s+\*\s+from`),
			Description: "Unbounded column selection",
			Suggestion:  "Select only the columns the caller needs",
		},
		{
			Type:        "unbounded_listener",
			Category:    CategoryPerformance,
			Severity:    SeverityLow,
			Pattern:     regexp.MustCompile(`(?i)\b(addEventListener|setInterval)\s*\(`),
			Unless:      regexp.MustCompile(`(?i)(removeEventListener|clearInterval)`),
			Description: "Listener or timer registered without visible cleanup",
			Suggestion:  "Pair registrations with removeEventListener/clearInterval to avoid leaks",
		},
	}
}

func qualityRules() []Rule {
	return []Rule{
		{
			Type:        "long_method",
			Category:    CategoryQuality,
			Severity:    SeverityMedium,
			Pattern:     regexp.MustCompile(`(?i)(\bfunction\b[\w\s]*\(|^\s*def\s+\w+|^\s*(public|private|protected)\s+[\w<>\[\]]+\s+\w+\s*\()`),
			Window:      40,
			Description: "Function body runs long without closing",
			Suggestion:  "Split the function into smaller, named steps",
		},
		{
			Type:        "magic_number",
			Category:    CategoryQuality,
			Severity:    SeverityLow,
			Pattern:     regexp.MustCompile(`(^|[^\w.])[0-9]{3,}([^\w.]|$)`),
			Description: "Bare numeric literal",
			Suggestion:  "Name the constant so the value's meaning is explicit",
		},
		{
			Type:        "code_duplication",
			Category:    CategoryQuality,
			Severity:    SeverityLow,
			Pattern:     regexp.MustCompile(`(?i)(copy.?past|copied from|duplicated? (from|code)|same as above)`),
			Description: "Copy/paste marker in the change",
			Suggestion:  "Extract the shared logic instead of duplicating it",
		},
		{
			Type:        "poor_naming",
			Category:    CategoryQuality,
			Severity:    SeverityLow,
			Pattern:     regexp.MustCompile(`(?i)\b(temp|tmp|foo|bar|baz|thing|stuff|data2|obj2)\d*\s*=\s*[^=]`),
			Description: "Placeholder identifier",
			Suggestion:  "Rename to describe what the value holds",
		},
		{
			Type:        "missing_error_handling",
			Category:    CategoryQuality,
			Severity:    SeverityMedium,
			Pattern:     regexp.MustCompile(`(?i)\b(fetch|axios(\.\w+)?|http\.get|requests\.(get|post|put|delete))\s*\(`),
			Unless:      regexp.MustCompile(`(?i)(\btry\b|\bcatch\b|\.catch\()`),
			Description: "External call without visible error handling",
			Suggestion:  "Wrap the call in try/catch or handle the rejected promise",
		},
	}
}

func removedChecks() []RemovedCheck {
	return []RemovedCheck{
		{
			Label:       "error handling",
			Pattern:     regexp.MustCompile(`(?i)\b(try|catch|except|rescue|finally)\b`),
			Description: "error handling was removed",
		},
		{
			Label:       "validation",
			Pattern:     regexp.MustCompile(`(?i)(validat|sanitiz|verify|\bcheck\w*\s*\()`),
			Description: "input validation was removed",
		},
		{
			Label:       "security",
			Pattern:     regexp.MustCompile(`(?i)(auth|token|permission|session|csrf|encrypt)`),
			Description: "security-related logic was removed",
		},
		{
			Label:       "logging",
			Pattern:     regexp.MustCompile(`(?i)(\blog\.|logger\.|console\.(log|warn|error)|logging\.)`),
			Description: "logging was removed",
		},
	}
}

// DefaultRuleSet returns the built-in rule set. Call once at startup; the
// result must be treated as read-only.
func DefaultRuleSet() *RuleSet {
	return &RuleSet{
		Security:    securityRules(),
		Performance: performanceRules(),
		Quality:     qualityRules(),
		Removed:     removedChecks(),
	}
}
