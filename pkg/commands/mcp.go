package commands

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/runner/mcp"
)

func addMCP(topLevel *cobra.Command) {
	var (
		transport   string
		httpHost    string
		httpPort    int
		httpPath    string
		httpTLSCert string
		httpTLSKey  string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "start the Model Context Protocol server",
		Long: `Launch an MCP server that exposes tasks, calendar views, journal entries and
workspaces as tools and resources.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app.Service) error {
				path := strings.TrimSpace(httpPath)
				if path == "" {
					path = "/mcp"
				}
				if !strings.HasPrefix(path, "/") {
					path = "/" + path
				}

				runner := mcp.Runner{
					App:              a,
					Name:             "taskflow",
					Version:          version,
					HTTPEndpointPath: path,
					HTTPServerCert:   strings.TrimSpace(httpTLSCert),
					HTTPServerKey:    strings.TrimSpace(httpTLSKey),
				}

				switch strings.ToLower(strings.TrimSpace(transport)) {
				case "", string(mcp.TransportHTTP):
					host := strings.TrimSpace(httpHost)
					if host == "" {
						host = "127.0.0.1"
					}
					if httpPort < 0 || httpPort > 65535 {
						return fmt.Errorf("invalid http-port %d", httpPort)
					}
					addr := net.JoinHostPort(host, strconv.Itoa(httpPort))
					runner.Transport = mcp.TransportHTTP
					runner.HTTPListenAddr = addr
					runner.OnHTTPListening = func(l net.Addr) {
						scheme := "http"
						if runner.HTTPServerCert != "" && runner.HTTPServerKey != "" {
							scheme = "https"
						}
						_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "MCP HTTP server listening on %s://%s%s\n",
							scheme, displayAddr(host, l), path)
					}
				case string(mcp.TransportStdio):
					runner.Transport = mcp.TransportStdio
				default:
					return fmt.Errorf("unsupported transport %q (expected http or stdio)", transport)
				}

				return runner.Do(ctx)
			})
		},
	}

	cmd.Flags().StringVar(&transport, "transport", string(mcp.TransportHTTP), "transport to use: http or stdio")
	cmd.Flags().StringVar(&httpHost, "http-host", "127.0.0.1", "host/interface for HTTP transport")
	cmd.Flags().IntVar(&httpPort, "http-port", 8080, "port for HTTP transport (use 0 for random)")
	cmd.Flags().StringVar(&httpPath, "http-path", "/mcp", "HTTP endpoint path")
	cmd.Flags().StringVar(&httpTLSCert, "http-tls-cert", "", "TLS certificate file for HTTPS")
	cmd.Flags().StringVar(&httpTLSKey, "http-tls-key", "", "TLS private key file for HTTPS")

	topLevel.AddCommand(cmd)
}

// displayAddr renders the listening address with a reachable host.
func displayAddr(host string, a net.Addr) string {
	tcpAddr, ok := a.(*net.TCPAddr)
	if !ok {
		return a.String()
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
		if tcpAddr.IP != nil && !tcpAddr.IP.IsUnspecified() {
			host = tcpAddr.IP.String()
		}
	}
	return net.JoinHostPort(host, strconv.Itoa(tcpAddr.Port))
}
