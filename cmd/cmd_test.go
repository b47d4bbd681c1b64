package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/BitPonyLLC/colorname/buildinfo"
	"github.com/BitPonyLLC/colorname/pkg/colordef"
	"github.com/BitPonyLLC/colorname/pkg/colorspace"
	"github.com/BitPonyLLC/colorname/pkg/ipc"
	"github.com/BitPonyLLC/colorname/pkg/pidpath"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const testDefinitions = `[options]
name = Test
author = someone

[colors]
Foo = 123456
Bar = ABCDEF
`

type testEnv struct {
	dir     string
	logPath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, "colors")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}

	return &testEnv{dir: dir, logPath: filepath.Join(home, "test.log")}
}

func (env *testEnv) sockPath() string {
	return filepath.Join(filepath.Dir(env.dir), "test.sock")
}

func (env *testEnv) pidPath() string {
	return filepath.Join(filepath.Dir(env.dir), "test.pid")
}

func (env *testEnv) writeDefinitions(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(env.dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// execRoot runs the root command with args in an isolated environment and
// returns everything written to stdout.
func (env *testEnv) execRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	ipc.ResetFlags(rootCmd)
	initialized = false
	sess = nil
	failureCode = 1

	t.Cleanup(func() {
		ipc.ResetFlags(rootCmd)
		atExit()
		logF = nil
		pidPath = nil
		ipcServer = nil
	})

	common := []string{
		"--config", filepath.Join(filepath.Dir(env.dir), "missing"),
		"--pidpath", env.pidPath(),
		"--sockpath", env.sockPath(),
		"--log-dst", env.logPath,
		"--dir", env.dir,
	}

	full := common
	if len(args) > 0 {
		full = append([]string{args[0]}, common...)
		full = append(full, args[1:]...)
	}

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(full)

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func resultRows(t *testing.T, out string) []string {
	t.Helper()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) < 4 {
		t.Fatalf("expected a result table, got:\n%s", out)
	}
	return lines[3:]
}

func TestMatch_Builtin(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.execRoot(t, "match", "00000A")
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}

	if !strings.HasPrefix(out, "#00000A in RGB\n") {
		t.Errorf("unexpected header in:\n%s", out)
	}

	rows := resultRows(t, out)
	if len(rows) != len(colordef.Builtin().Colors) {
		t.Fatalf("expected %d rows, got %d:\n%s", len(colordef.Builtin().Colors), len(rows), out)
	}

	first := strings.Fields(rows[0])
	if diff := cmp.Diff([]string{"10.000", "Black", "Builtin", "colors", "#000000"}, first); diff != "" {
		t.Errorf("first row mismatch (-want +got):\n%s", diff)
	}

	last := strings.Fields(rows[len(rows)-1])
	if last[1] != "White" {
		t.Errorf("expected White to be farthest, got %v", last)
	}
}

func TestMatch_ByName(t *testing.T) {
	env := newTestEnv(t)
	env.writeDefinitions(t, "colorname-test.txt", testDefinitions)

	out, err := env.execRoot(t, "match", "Foo")
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}

	rows := resultRows(t, out)
	// the builtin palette stays disabled once a file is loaded
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d:\n%s", len(rows), out)
	}

	if diff := cmp.Diff([]string{"0.000", "Foo", "Test", "#123456"}, strings.Fields(rows[0])); diff != "" {
		t.Errorf("first row mismatch (-want +got):\n%s", diff)
	}
}

func TestMatch_EnableAndLimit(t *testing.T) {
	env := newTestEnv(t)
	env.writeDefinitions(t, "colorname-test.txt", testDefinitions)

	out, err := env.execRoot(t, "match", "--enable", colordef.BuiltinName, "--limit", "2", "123456")
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}

	rows := resultRows(t, out)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d:\n%s", len(rows), out)
	}

	names := []string{strings.Fields(rows[0])[1], strings.Fields(rows[1])[1]}
	if diff := cmp.Diff([]string{"Foo", "Black"}, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestMatch_Space(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.execRoot(t, "match", "--space", "hsv", "ffffff")
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}

	if !strings.HasPrefix(out, "#FFFFFF in HSV\n") {
		t.Errorf("unexpected header in:\n%s", out)
	}

	rows := resultRows(t, out)
	if got := strings.Fields(rows[0])[:2]; !cmp.Equal([]string{"0.000", "White"}, got) {
		t.Errorf("expected White first, got %v", got)
	}
}

func TestMatch_Failures(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"unknown color", []string{"match", "NoSuchColor"}, 12},
		{"unknown space", []string{"match", "--space", "cmyk", "000000"}, 13},
		{"unknown list", []string{"match", "--enable", "Nope", "000000"}, 14},
		{"nothing to match", []string{"match"}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			_, err := env.execRoot(t, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if failureCode != tt.code {
				t.Errorf("expected exit code %d, got %d (%v)", tt.code, failureCode, err)
			}
		})
	}
}

func TestLists(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeDefinitions(t, "colorname-test.txt", testDefinitions)

	out, err := env.execRoot(t, "lists", "-v")
	if err != nil {
		t.Fatalf("lists failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) < 4 {
		t.Fatalf("unexpected output:\n%s", out)
	}

	if diff := cmp.Diff([]string{"yes", "Test", "2", path}, strings.Fields(lines[2])); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}

	if !strings.Contains(out, "    author = someone") {
		t.Errorf("expected options in verbose output:\n%s", out)
	}

	builtin := false
	for _, line := range lines {
		if strings.HasPrefix(line, "no ") && strings.Contains(line, colordef.BuiltinName) {
			builtin = true
		}
	}
	if !builtin {
		t.Errorf("expected a disabled builtin list in output:\n%s", out)
	}
}

func TestExport_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	env.writeDefinitions(t, "colorname-test.txt", testDefinitions)

	exported := filepath.Join(t.TempDir(), "exported.txt")
	_, err := env.execRoot(t, "export", "Test", "-o", exported)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	l, err := colordef.ParseFile(exported)
	if err != nil {
		t.Fatalf("unable to parse export: %v", err)
	}

	want := map[string]colorspace.RGBColor{
		"Foo": {Red: 0x12, Green: 0x34, Blue: 0x56},
		"Bar": {Red: 0xab, Green: 0xcd, Blue: 0xef},
	}
	if diff := cmp.Diff(want, l.Colors); diff != "" {
		t.Errorf("colors mismatch (-want +got):\n%s", diff)
	}
	if l.Name != "Test" || !l.Enabled {
		t.Errorf("unexpected list header: %q enabled=%v", l.Name, l.Enabled)
	}
}

func TestExport_Unknown(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.execRoot(t, "export", "Nope")
	if err == nil {
		t.Fatal("expected an error")
	}
	if failureCode != 20 {
		t.Errorf("expected exit code 20, got %d", failureCode)
	}
}

func TestServerCommands_NoServer(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.execRoot(t, "enable", colordef.BuiltinName)
	if !errors.Is(err, errNoServer) {
		t.Fatalf("expected errNoServer, got %v", err)
	}
	if failureCode != 2 {
		t.Errorf("expected exit code 2, got %d", failureCode)
	}
}

func TestDumpSpaces(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.execRoot(t, "dump", "spaces")
	if err != nil {
		t.Fatalf("dump failed: %v", err)
	}

	var want string
	for _, s := range colorspace.Spaces() {
		want += string(s) + "\n"
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestDumpAppInfo(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.execRoot(t, "dump", "name", "license")
	if err != nil {
		t.Fatalf("dump failed: %v", err)
	}

	if diff := cmp.Diff("colorname"+buildinfo.App.License, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	if buildinfo.App.License == "" {
		t.Error("expected the embedded app info to carry a license")
	}
}

func TestBadDefinitionsAreSkipped(t *testing.T) {
	env := newTestEnv(t)
	env.writeDefinitions(t, "colorname-test.txt", testDefinitions)
	bad := filepath.Join(t.TempDir(), "bad.txt")
	if err := os.WriteFile(bad, []byte("[options]\nname = Broken\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := env.execRoot(t, "lists", "--file", bad)
	if err != nil {
		t.Fatalf("lists failed: %v", err)
	}

	if strings.Contains(out, "Broken") {
		t.Errorf("broken list should be skipped:\n%s", out)
	}
	if !strings.Contains(out, "Test") {
		t.Errorf("good list should be loaded:\n%s", out)
	}

	logged, err := os.ReadFile(env.logPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(logged), bad) {
		t.Errorf("expected a warning naming %s in the log:\n%s", bad, logged)
	}
}

const commaDefinitions = `[options]
name = Web, Safe
active = 0

[colors]
Fab = 123456
`

func rowNames(rows []string) []string {
	names := make([]string, len(rows))
	for i, row := range rows {
		names[i] = strings.Fields(row)[1]
	}
	return names
}

func TestMatch_ToggleListWithComma(t *testing.T) {
	env := newTestEnv(t)
	env.writeDefinitions(t, "colorname-test.txt", testDefinitions)
	env.writeDefinitions(t, "colorname-web.txt", commaDefinitions)

	out, err := env.execRoot(t, "match", "--enable", "Web, Safe", "--disable", "Test", "123456")
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}

	if diff := cmp.Diff([]string{"Fab"}, rowNames(resultRows(t, out))); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestMatch_NameBeforeHex(t *testing.T) {
	env := newTestEnv(t)
	env.writeDefinitions(t, "colorname-web.txt", strings.Replace(commaDefinitions, "active = 0", "active = 1", 1))

	out, err := env.execRoot(t, "match", "Fab")
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if !strings.HasPrefix(out, "#123456 in RGB\n") {
		t.Errorf("expected the named color, got:\n%s", out)
	}

	out, err = env.execRoot(t, "match", "#Fab")
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if !strings.HasPrefix(out, "#FFAABB in RGB\n") {
		t.Errorf("expected the hex reading, got:\n%s", out)
	}
}

// serveSession owns the pidfile and serves the loaded session over the socket,
// the same state `serve` sets up.
func serveSession(t *testing.T, env *testEnv) {
	t.Helper()

	if _, err := env.execRoot(t, "lists"); err != nil {
		t.Fatalf("unable to load session: %v", err)
	}

	if err := pidPath.CheckAndSet(); err != nil {
		t.Fatalf("unable to take pidfile: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	if err := ipcServer.Start(ctx, &log.Logger, env.sockPath(), rootCmd); err != nil {
		t.Fatalf("unable to start server: %v", err)
	}
}

func sendToServer(t *testing.T, env *testEnv, args ...string) []string {
	t.Helper()

	var out, errs []string
	client := &ipc.Client{
		RespCB: func(line string) { out = append(out, line) },
		ErrCB:  func(line string) { errs = append(errs, line) },
	}

	err := client.Send(context.Background(), env.sockPath(), quoteArgs(args))
	if err != nil {
		t.Fatalf("%v failed: %v %v", args, err, errs)
	}

	return out
}

func TestServe_Commands(t *testing.T) {
	env := newTestEnv(t)
	env.writeDefinitions(t, "colorname-test.txt", testDefinitions)
	serveSession(t, env)

	sendToServer(t, env, "enable", colordef.BuiltinName)
	if l, err := sess.Find(colordef.BuiltinName); err != nil || !l.Enabled {
		t.Errorf("expected builtin list to be enabled: %v", err)
	}

	out := sendToServer(t, env, "space", "hsv")
	if diff := cmp.Diff([]string{"HSV"}, out); diff != "" {
		t.Errorf("space output mismatch (-want +got):\n%s", diff)
	}
	if sess.Space() != colorspace.HSV {
		t.Errorf("expected session space HSV, got %s", sess.Space())
	}

	out = sendToServer(t, env, "match", "--space", "rgb", "--limit", "1", "--", "123456")
	if len(out) != 4 || out[0] != "#123456 in RGB" || strings.Fields(out[3])[1] != "Foo" {
		t.Errorf("unexpected match output: %q", out)
	}

	// neither --space nor --limit may carry over into the next command
	out = sendToServer(t, env, "match", "123456")
	if len(out) == 0 || out[0] != "#123456 in HSV" {
		t.Fatalf("unexpected match output: %q", out)
	}
	if want := 3 + 2 + len(colordef.Builtin().Colors); len(out) != want {
		t.Errorf("expected %d lines, got %d: %q", want, len(out), out)
	}

	other := filepath.Join(t.TempDir(), "other.txt")
	if err := os.WriteFile(other, []byte("[options]\nname = Other\n[colors]\nBaz = 010203\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out = sendToServer(t, env, "add", other)
	if diff := cmp.Diff([]string{"loaded 1 of 1 files"}, out); diff != "" {
		t.Errorf("add output mismatch (-want +got):\n%s", diff)
	}
	if _, err := sess.Find("Other"); err != nil {
		t.Errorf("expected added list: %v", err)
	}

	sendToServer(t, env, "disable", "Test")
	if l, err := sess.Find("Test"); err != nil || l.Enabled {
		t.Errorf("expected Test list to be disabled: %v", err)
	}

	quit := false
	cancelFunc = func() { quit = true }
	t.Cleanup(func() { cancelFunc = func() {} })
	sendToServer(t, env, "quit")
	if !quit {
		t.Error("expected quit to cancel the server")
	}
}

// recordingServer stands in for another process serving on the socket and
// records every command line it receives.
type recordingServer struct {
	mutex sync.Mutex
	calls [][]string
}

func (rs *recordingServer) received() [][]string {
	rs.mutex.Lock()
	defer rs.mutex.Unlock()
	return rs.calls
}

func startRecordingServer(t *testing.T, env *testEnv) *recordingServer {
	t.Helper()

	// a second handle owns the pidfile, so the commands under test see a
	// running server that is not theirs
	owner := pidpath.NewPidPath(env.pidPath(), 0666)
	if err := owner.CheckAndSet(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { owner.Release() })

	rs := &recordingServer{}
	root := &cobra.Command{
		Use:                "remote",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rs.mutex.Lock()
			rs.calls = append(rs.calls, args)
			rs.mutex.Unlock()
			cmd.Println("ok")
			return nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server := &ipc.IPCServer{}
	if err := server.Start(ctx, &log.Logger, env.sockPath(), root); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(server.Stop)

	return rs
}

func TestForwardToServer(t *testing.T) {
	env := newTestEnv(t)
	rs := startRecordingServer(t, env)

	out, err := env.execRoot(t, "match", "--space", "hsv", "--limit", "2",
		"--enable", "Web, Safe", "--disable", `say "hi"`, "123456")
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if out != "ok\n" {
		t.Errorf("expected the server's reply, got %q", out)
	}

	_, err = env.execRoot(t, "lists", "-v")
	if err != nil {
		t.Fatalf("lists failed: %v", err)
	}

	_, err = env.execRoot(t, "space", "yiq")
	if err != nil {
		t.Fatalf("space failed: %v", err)
	}

	want := [][]string{
		{"match", "--space", "hsv", "--limit", "2", "--enable", "Web, Safe", "--disable", `say "hi"`, "--", "123456"},
		{"lists", "--verbose"},
		{"space", "yiq"},
	}
	if diff := cmp.Diff(want, rs.received()); diff != "" {
		t.Errorf("forwarded commands mismatch (-want +got):\n%s", diff)
	}
}
