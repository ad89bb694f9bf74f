package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/printdesk/versions/internal/models"
)

// runCLI executes a fresh command tree with a clean environment and no
// config file, returning stdout.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	stdout, _, err := runCLIWithStderr(t, stdin, args...)
	return stdout, err
}

func runCLIWithStderr(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{"LOG_LEVEL", "DISPLAY_TIMEZONE", "DIFF_WORKERS", "DIFF_INCLUDE_REMOVED", "VERSIONCTL_PROFILE"} {
		t.Setenv(key, "")
	}

	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func mustRunCLI(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, "", args...)
	if err != nil {
		t.Fatalf("versionctl %s: %v", strings.Join(args, " "), err)
	}
	return out
}

const orderJSON = `{
  "order_number": "PO-1001",
  "customer_id": "cust-42",
  "status": "quote",
  "items": [{"product": "Gildan 5000 Tee", "quantity": 48, "unit_price": 7.25}],
  "subtotal": 348,
  "tax": 27.84,
  "total": 375.84,
  "rush": false
}`

func TestCreateCmd(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "order.json", orderJSON)

	out := mustRunCLI(t, "create", "--type", "order", "--id", "ord-1", "--data", data,
		"--desc", "Quote entered", "--user-id", "u-7", "--user-name", "Jo")

	var entry models.VersionEntry[models.OrderVersion]
	if err := json.Unmarshal([]byte(out), &entry); err != nil {
		t.Fatalf("output is not a version entry: %v\n%s", err, out)
	}

	if entry.Version != 1 || entry.EntityID != "ord-1" || entry.EntityType != models.EntityOrder {
		t.Errorf("unexpected entry header %+v", entry)
	}
	if entry.UserName != "Jo" || entry.ChangeDescription != "Quote entered" || entry.Data.OrderNumber != "PO-1001" {
		t.Errorf("unexpected entry body %+v", entry)
	}
	if _, err := entry.Time(); err != nil {
		t.Errorf("timestamp: %v", err)
	}
}

func TestCreateCmd_GeneratesID(t *testing.T) {
	out, err := runCLI(t, `{"name":"Acme","email":"ops@acme.test"}`,
		"create", "--type", "customer", "--data", "-", "--format", "quiet")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := uuid.Parse(strings.TrimSpace(out)); err != nil {
		t.Errorf("quiet output %q is not a UUID: %v", out, err)
	}
}

func TestCreateCmd_Errors(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "order.json", orderJSON)

	_, err := runCLI(t, "", "create", "--type", "invoice", "--data", data)
	if !errors.Is(err, models.ErrInvalidEntityType) {
		t.Errorf("expected ErrInvalidEntityType, got %v", err)
	}

	_, err = runCLI(t, "", "create", "--type", "order")
	if err == nil || !strings.Contains(err.Error(), "data") {
		t.Errorf("expected missing --data error, got %v", err)
	}

	_, err = runCLI(t, "", "create", "--type", "order", "--data", data, "--format", "xml")
	if err == nil || !strings.Contains(err.Error(), "--format") {
		t.Errorf("expected bad format error, got %v", err)
	}
}

func TestDiffCmd_Untyped(t *testing.T) {
	dir := t.TempDir()
	older := writeFile(t, dir, "old.json", `{"a":1,"b":2}`)
	newer := writeFile(t, dir, "new.json", `{"a":1}`)

	out := mustRunCLI(t, "diff", older, newer)
	var fields []string
	if err := json.Unmarshal([]byte(out), &fields); err != nil {
		t.Fatalf("invalid output %q: %v", out, err)
	}
	if len(fields) != 0 {
		t.Errorf("removed field reported by default: %v", fields)
	}

	out = mustRunCLI(t, "diff", "--removed", "--format", "quiet", older, newer)
	if out != "b\n" {
		t.Errorf("with --removed: got %q, want %q", out, "b\n")
	}
}

func TestDiffCmd_TypedDetail(t *testing.T) {
	dir := t.TempDir()
	older := writeFile(t, dir, "old.json", orderJSON)
	newer := writeFile(t, dir, "new.yaml", `
order_number: PO-1001
customer_id: cust-42
status: approved
items:
  - product: Gildan 5000 Tee
    quantity: 48
    unit_price: 7.25
subtotal: 348
tax: 27.84
total: 375.84
rush: true
`)

	out := mustRunCLI(t, "diff", "--type", "order", "--detail", older, newer)

	var changes []models.FieldChange
	if err := json.Unmarshal([]byte(out), &changes); err != nil {
		t.Fatalf("invalid output %q: %v", out, err)
	}

	if len(changes) != 2 || changes[0].Field != "status" || changes[1].Field != "rush" {
		t.Fatalf("unexpected changes %+v", changes)
	}
	if string(changes[0].OldValue) != `"quote"` || string(changes[0].NewValue) != `"approved"` {
		t.Errorf("unexpected status values %+v", changes[0])
	}

	tbl := mustRunCLI(t, "diff", "--type", "order", "--detail", "--format", "table", older, newer)
	if !strings.Contains(tbl, "status  changed") || !strings.Contains(tbl, `"approved"`) {
		t.Errorf("unexpected table:\n%s", tbl)
	}
}

func TestMetricsFlag(t *testing.T) {
	_, stderr, err := runCLIWithStderr(t, "", "--metrics", "format-ts", "--format", "quiet", "2024-01-05")
	if err != nil {
		t.Fatalf("format-ts: %v", err)
	}
	if !strings.Contains(stderr, "printdesk_timestamp_format_errors_total") {
		t.Errorf("expected metrics on stderr, got:\n%s", stderr)
	}

	_, stderr, err = runCLIWithStderr(t, "", "format-ts", "2024-01-05")
	if err != nil {
		t.Fatalf("format-ts: %v", err)
	}
	if strings.Contains(stderr, "printdesk_") {
		t.Errorf("metrics printed without --metrics:\n%s", stderr)
	}
}

func TestStdinUsedOnce(t *testing.T) {
	_, err := runCLI(t, `{"a":1}`, "diff", "-", "-")
	if err == nil || !strings.Contains(err.Error(), "stdin") {
		t.Errorf("expected stdin reuse error from diff, got %v", err)
	}

	_, err = runCLI(t, `{"name":"Acme"}`, "history", "append", "--type", "customer",
		"--history", "-", "--data", "-", "--desc", "Created")
	if err == nil || !strings.Contains(err.Error(), "stdin") {
		t.Errorf("expected stdin reuse error from history append, got %v", err)
	}
}

func TestHistoryCmds(t *testing.T) {
	dir := t.TempDir()
	historyPath := filepath.Join(dir, "history.json")
	v1 := writeFile(t, dir, "v1.json", `{"artwork_id":"art-7","file_name":"logo.ai","file_url":"https://f.test/logo.ai","status":"pending"}`)
	v2 := writeFile(t, dir, "v2.json", `{"artwork_id":"art-7","file_name":"logo.ai","file_url":"https://f.test/logo.ai","status":"approved","approved_by":"Jo"}`)

	out := mustRunCLI(t, "history", "append", "--type", "artwork", "--id", "art-7",
		"--history", historyPath, "--data", v1, "--desc", "Uploaded")
	if err := os.WriteFile(historyPath, []byte(out), 0o600); err != nil {
		t.Fatal(err)
	}

	out = mustRunCLI(t, "history", "append", "--type", "artwork",
		"--history", historyPath, "--data", v2, "--desc", "Approved", "--user-name", "Jo")
	if err := os.WriteFile(historyPath, []byte(out), 0o600); err != nil {
		t.Fatal(err)
	}

	var h models.VersionedEntity[models.ArtworkVersion]
	if err := json.Unmarshal([]byte(out), &h); err != nil {
		t.Fatalf("invalid history %q: %v", out, err)
	}
	if h.CurrentVersion != 2 || h.Len() != 2 || h.EntityID != "art-7" {
		t.Fatalf("unexpected history %+v", h)
	}
	if got := strings.Join(h.Versions[1].FieldsChanged, ","); got != "status,approved_by" {
		t.Errorf("computed fields: got %q", got)
	}

	out = mustRunCLI(t, "history", "log", "--type", "artwork", historyPath)
	var summaries []models.ChangeSummary
	if err := json.Unmarshal([]byte(out), &summaries); err != nil {
		t.Fatalf("invalid change log %q: %v", out, err)
	}
	if len(summaries) != 2 || summaries[1].ChangeDescription != "Approved" {
		t.Errorf("unexpected change log %+v", summaries)
	}

	logTable := mustRunCLI(t, "history", "log", "--type", "artwork", "--format", "table", historyPath)
	if !strings.Contains(logTable, "WHEN") || !strings.Contains(logTable, "status,approved_by") {
		t.Errorf("unexpected log table:\n%s", logTable)
	}

	out = mustRunCLI(t, "history", "show", "--type", "artwork", "--version", "1", "--format", "quiet", historyPath)
	if out != "1\n" {
		t.Errorf("show: got %q", out)
	}

	out = mustRunCLI(t, "history", "diff", "--type", "artwork", "--format", "quiet", historyPath, "1", "2")
	if out != "status\napproved_by\n" {
		t.Errorf("history diff: got %q", out)
	}

	out = mustRunCLI(t, "history", "diff", "--type", "artwork", "--removed", "--format", "quiet", historyPath, "1", "2")
	if out != "status\napproved_by\n" {
		t.Errorf("history diff --removed: got %q", out)
	}

	out = mustRunCLI(t, "history", "diff", "--type", "artwork", "--detail", historyPath, "2", "1")
	var changes []models.FieldChange
	if err := json.Unmarshal([]byte(out), &changes); err != nil {
		t.Fatalf("invalid detailed diff %q: %v", out, err)
	}
	if len(changes) != 2 || changes[1].Field != "approved_by" ||
		string(changes[1].OldValue) != `"Jo"` || string(changes[1].NewValue) != `""` {
		t.Errorf("unexpected detailed history diff %+v", changes)
	}

	_, err := runCLI(t, "", "history", "show", "--type", "artwork", "--version", "9", historyPath)
	if !errors.Is(err, models.ErrVersionNotFound) {
		t.Errorf("expected ErrVersionNotFound, got %v", err)
	}

	_, err = runCLI(t, "", "history", "log", "--type", "order", historyPath)
	if err == nil || !strings.Contains(err.Error(), "unknown field") {
		t.Errorf("expected artwork data to be rejected as an order history, got %v", err)
	}

	_, err = runCLI(t, "", "history", "append", "--type", "artwork", "--id", "art-8",
		"--history", historyPath, "--data", v2)
	if err == nil || !strings.Contains(err.Error(), "does not match") {
		t.Errorf("expected id mismatch error, got %v", err)
	}
}

func TestFormatTimestampCmd(t *testing.T) {
	out := mustRunCLI(t, "format-ts", "--format", "quiet", "2024-01-05T15:45:00.000Z")
	if out != "Jan 5, 2024, 03:45 PM\n" {
		t.Errorf("got %q", out)
	}

	out, err := runCLI(t, "", "format-ts", "--format", "quiet", "2024-01-05T15:45:00.000Z", "not-a-date")
	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Errorf("expected invalid timestamp error, got %v", err)
	}
	if out != "Jan 5, 2024, 03:45 PM\nInvalid Date\n" {
		t.Errorf("got %q", out)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", `
log_level: error
display_timezone: UTC
active_profile: tokyo
profiles:
  tokyo:
    display_timezone: Asia/Tokyo
  berlin:
    display_timezone: Europe/Berlin
`)

	out := mustRunCLI(t, "--config", cfgPath, "format-ts", "--format", "quiet", "2024-01-05T15:45:00.000Z")
	if out != "Jan 6, 2024, 12:45 AM\n" {
		t.Errorf("active profile: got %q", out)
	}

	out = mustRunCLI(t, "--config", cfgPath, "--profile", "berlin", "format-ts", "--format", "quiet", "2024-01-05T15:45:00.000Z")
	if out != "Jan 5, 2024, 04:45 PM\n" {
		t.Errorf("--profile: got %q", out)
	}

	_, err := runCLI(t, "", "--config", cfgPath, "--profile", "paris", "format-ts", "2024-01-05T15:45:00.000Z")
	if err == nil || !strings.Contains(err.Error(), "paris") {
		t.Errorf("expected missing profile error, got %v", err)
	}

	_, err = runCLI(t, "", "--config", filepath.Join(dir, "missing.yaml"), "format-ts", "2024-01-05T15:45:00.000Z")
	if err == nil || !strings.Contains(err.Error(), "reading config file") {
		t.Errorf("expected missing config error, got %v", err)
	}
}

func TestConfigFile_EnvWins(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", "display_timezone: Asia/Tokyo\n")

	root := func() (string, error) {
		t.Setenv("HOME", t.TempDir())
		t.Setenv("DISPLAY_TIMEZONE", "UTC")
		r := newRootCmd()
		var stdout bytes.Buffer
		r.SetOut(&stdout)
		r.SetErr(&bytes.Buffer{})
		r.SetArgs([]string{"--config", cfgPath, "format-ts", "--format", "quiet", "2024-01-05T15:45:00.000Z"})
		err := r.Execute()
		return stdout.String(), err
	}

	out, err := root()
	if err != nil {
		t.Fatalf("format-ts: %v", err)
	}
	if out != "Jan 5, 2024, 03:45 PM\n" {
		t.Errorf("env should override config file, got %q", out)
	}
}
