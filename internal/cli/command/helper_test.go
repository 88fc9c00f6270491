package command

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// cliEnv runs the CLI against a private server config and token file.
type cliEnv struct {
	t            *testing.T
	dir          string
	tokensFile   string
	serverConfig string
	cliConfig    string
	out          bytes.Buffer
	errOut       bytes.Buffer
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	e := &cliEnv{
		t:            t,
		dir:          dir,
		tokensFile:   filepath.Join(dir, "tokens.json"),
		serverConfig: filepath.Join(dir, "linkdrop.yaml"),
		cliConfig:    filepath.Join(dir, "cli.yaml"),
	}

	content := fmt.Sprintf("storage:\n  tokens_file: %s\ndownload:\n  dir: %s\n",
		e.tokensFile, filepath.Join(dir, "downloads"))
	e.write(e.serverConfig, content)
	return e
}

func (e *cliEnv) write(path, content string) {
	e.t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		e.t.Fatalf("WriteFile(%s) error = %v", path, err)
	}
}

// file creates a file under the env directory and returns its path.
func (e *cliEnv) file(name, content string) string {
	e.t.Helper()
	path := filepath.Join(e.dir, name)
	e.write(path, content)
	return path
}

// run executes the CLI with the env's config files prepended.
func (e *cliEnv) run(args ...string) error {
	e.out.Reset()
	e.errOut.Reset()

	app := App()
	app.Writer = &e.out
	app.ErrWriter = &e.errOut

	full := append([]string{"linkdrop-cli", "--cli-config", e.cliConfig, "--config", e.serverConfig}, args...)
	return app.Run(full)
}

func (e *cliEnv) mustRun(args ...string) string {
	e.t.Helper()
	if err := e.run(args...); err != nil {
		e.t.Fatalf("run %v: %v\nstderr: %s", args, err, e.errOut.String())
	}
	return e.out.String()
}
