package command

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"
)

// runCLI runs the app with the given arguments and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	app := App()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = io.Discard
	app.Reader = strings.NewReader("")
	// Exit-coded errors must be returned, never os.Exit the test binary.
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"certmesh-cli"}, args...))
	return out.String(), err
}
