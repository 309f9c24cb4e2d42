// Package cli is the interactive command-line front end: share files into a
// new vault, fetch files out of one, check server reachability.
package cli

import (
	"bufio"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/dropvault/internal/client/client"
	"github.com/dmitrijs2005/dropvault/internal/client/config"
	"github.com/dmitrijs2005/dropvault/internal/client/services"
)

type App struct {
	config *config.Config
	vaults services.VaultService
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) (*App, error) {

	apiClient := client.NewHTTPVaultClient(c.ServerEndpointAddr, c.RequestTimeout)
	transfer := &http.Client{Timeout: c.RequestTimeout}
	vs := services.NewVaultService(apiClient, transfer, c.OutputDir)

	return &App{
		config: c,
		vaults: vs,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}
