package review

import "testing"

func findRule(t *testing.T, rs *RuleSet, typ string) *Rule {
	t.Helper()
	r := rs.Lookup(typ)
	if r == nil {
		t.Fatalf("rule %q not found", typ)
	}
	return r
}

func TestSecurityRules_Match(t *testing.T) {
	rs := DefaultRuleSet()

	tests := []struct {
		rule string
		line string
		want bool
	}{
		{"sql_injection", `const query = "SELECT * FROM users WHERE id=" + userId;`, true},
		{"sql_injection", `db.exec("DELETE FROM sessions WHERE id=${id}")`, true},
		{"sql_injection", `const rows = await repo.findAll();`, false},
		{"hardcoded_secret", `const apiKey = "sk-1234567890abcdef1234567890abcdef";`, true},
		{"hardcoded_secret", `password = "hunter2hunter2"`, true},
		{"hardcoded_secret", `apiKey := os.Getenv("API_KEY")`, false},
		{"hardcoded_secret", `pw := "short"`, false},
		{"xss_sink", `el.innerHTML = userInput;`, true},
		{"xss_sink", `document.write(payload)`, true},
		{"xss_sink", `return eval(expr)`, true},
		{"xss_sink", `el.textContent = userInput;`, false},
		{"insecure_random", `const token = Math.random().toString(36);`, true},
		{"insecure_random", `id := rand()`, true},
		{"insecure_random", `buf := make([]byte, 32)`, false},
		{"weak_crypto", `hash := md5.Sum(data)`, true},
		{"weak_crypto", `h = hashlib.sha1(data)`, true},
		{"weak_crypto", `// describes the flow`, false},
		{"weak_crypto", `h := sha256.New()`, false},
	}

	for _, tt := range tests {
		rule := findRule(t, rs, tt.rule)
		got := rule.Pattern.MatchString(tt.line)
		if got != tt.want {
			t.Errorf("%s.MatchString(%q) = %v, want %v", tt.rule, tt.line, got, tt.want)
		}
	}
}

func TestPerformanceRules_Match(t *testing.T) {
	rs := DefaultRuleSet()

	tests := []struct {
		rule string
		line string
		want bool
	}{
		{"blocking_call", `const data = fs.readFileSync(path);`, true},
		{"blocking_call", `time.sleep(5)`, true},
		{"blocking_call", `const data = await fs.readFile(path);`, false},
		{"select_star", `SELECT * FROM orders`, true},
		{"select_star", `SELECT id, total FROM orders`, false},
		{"unbounded_listener", `window.addEventListener("resize", onResize);`, true},
		{"unbounded_listener", `setInterval(poll, 5000);`, true},
	}

	for _, tt := range tests {
		rule := findRule(t, rs, tt.rule)
		got := rule.Pattern.MatchString(tt.line)
		if got != tt.want {
			t.Errorf("%s.MatchString(%q) = %v, want %v", tt.rule, tt.line, got, tt.want)
		}
	}
}

func TestUnboundedListener_UnlessCleanup(t *testing.T) {
	rs := DefaultRuleSet()
	rule := findRule(t, rs, "unbounded_listener")

	line := `const id = setInterval(poll, 1000); onClose(() => clearInterval(id));`
	if !rule.Pattern.MatchString(line) {
		t.Fatal("Pattern should match the registration")
	}
	if !rule.Unless.MatchString(line) {
		t.Error("Unless should match the cleanup on the same line")
	}
}

func TestQualityRules_Match(t *testing.T) {
	rs := DefaultRuleSet()

	tests := []struct {
		rule string
		line string
		want bool
	}{
		{"magic_number", `timeout = 30000`, true},
		{"magic_number", `if retries > 500 {`, true},
		{"magic_number", `x = 5`, false},
		{"magic_number", `const v = "1.2.3"`, false},
		{"code_duplication", `// copied from user_service.js`, true},
		{"code_duplication", `merged := mergeMaps(a, b)`, false},
		{"poor_naming", `temp = compute(x)`, true},
		{"poor_naming", `foo2 = lookup(id)`, true},
		{"poor_naming", `template = render(x)`, false},
		{"missing_error_handling", `const res = fetch(url);`, true},
		{"missing_error_handling", `requests.get(url)`, true},
		{"missing_error_handling", `const res = await client.query(sql);`, false},
	}

	for _, tt := range tests {
		rule := findRule(t, rs, tt.rule)
		got := rule.Pattern.MatchString(tt.line)
		if got != tt.want {
			t.Errorf("%s.MatchString(%q) = %v, want %v", tt.rule, tt.line, got, tt.want)
		}
	}
}

func TestMissingErrorHandling_UnlessCatch(t *testing.T) {
	rs := DefaultRuleSet()
	rule := findRule(t, rs, "missing_error_handling")

	line := `fetch(url).catch(err => report(err));`
	if !rule.Pattern.MatchString(line) {
		t.Fatal("Pattern should match the call")
	}
	if !rule.Unless.MatchString(line) {
		t.Error("Unless should match the same-line catch")
	}
}

func TestRemovedChecks_Match(t *testing.T) {
	rs := DefaultRuleSet()

	tests := []struct {
		line string
		want int
	}{
		{`try {`, 1},
		{`} catch (err) {`, 1},
		{`validateInput(req.body);`, 1},
		{`logger.info("user created");`, 1},
		{`if (!session.token) return 401;`, 1}, // security keywords
		{`return items.map(toDTO);`, 0},
	}

	for _, tt := range tests {
		matched := 0
		for _, chk := range rs.Removed {
			if chk.Pattern.MatchString(tt.line) {
				matched++
			}
		}
		if matched < tt.want {
			t.Errorf("removed checks matching %q = %d, want >= %d", tt.line, matched, tt.want)
		}
		if tt.want == 0 && matched != 0 {
			t.Errorf("removed checks matching %q = %d, want 0", tt.line, matched)
		}
	}
}

func TestDefaultRuleSet_Complete(t *testing.T) {
	rs := DefaultRuleSet()

	if len(rs.Security) != 5 {
		t.Errorf("Security rules = %d, want 5", len(rs.Security))
	}
	if len(rs.Performance) != 4 {
		t.Errorf("Performance rules = %d, want 4", len(rs.Performance))
	}
	if len(rs.Quality) != 5 {
		t.Errorf("Quality rules = %d, want 5", len(rs.Quality))
	}
	if len(rs.Removed) != 4 {
		t.Errorf("Removed checks = %d, want 4", len(rs.Removed))
	}

	for _, list := range [][]Rule{rs.Security, rs.Performance, rs.Quality} {
		for _, r := range list {
			if r.Type == "" || r.Pattern == nil || r.Description == "" {
				t.Errorf("rule %+v missing required fields", r.Type)
			}
			if !validSeverity(r.Severity) {
				t.Errorf("rule %s has invalid severity %q", r.Type, r.Severity)
			}
		}
	}
}
