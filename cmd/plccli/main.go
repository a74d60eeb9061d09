package main

import (
	"context"
	"flag"
	"fmt"
	"hash/fnv"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/octanis-instruments/opcua-core/internal/bridge"
	"github.com/octanis-instruments/opcua-core/internal/cliclient"
)

// Version information - these will be set during build
var (
	buildVersion string = "v0.3"
	buildCommit  string = "unknown"
	buildTime    string = "unknown"
)

// Common flags
var (
	version        = flag.Bool("version", false, "Show version information")
	endpoint       = flag.String("endpoint", "opc.tcp://192.168.123.252:4840", "OPC UA Endpoint URL")
	username       = flag.String("username", "", "Username")
	password       = flag.String("password", "", "Password")
	certfile       = flag.String("cert", "cert.pem", "Certificate file")
	keyfile        = flag.String("key", "key.pem", "Private key file")
	gencert        = flag.Bool("gen-cert", true, "Generate a certificate if none exists at the certificate path")
	appuri         = flag.String("app-uri", "urn:plccli:client", "Application URI")
	timeout        = flag.Int("timeout", 300, "OPC UA connect and request timeout in seconds")
	service        = flag.Bool("service", false, "Run as a background service")
	port           = flag.Int("port", 8765, "Base port for service mode")
	connection     = flag.String("connection", "default", "Connection name for multiple OPCUA connections")
	verbose        = flag.Bool("verbose", false, "Enable verbose logging")
	outputFormat   = flag.String("format", "influx", "Output format: default or influx")
	securityPolicy = flag.String("security-policy", "Basic256", "Security policy: None, Basic128Rsa15, Basic256, Basic256Sha256")
	securityMode   = flag.String("security-mode", "SignAndEncrypt", "Security mode: None, Sign, SignAndEncrypt")
	authMethod     = flag.String("auth-method", "UserName", "Authentication method: UserName, Anonymous")
	extractBits    = flag.Bool("extract-bits", false, "Decode a uint32 get result into individual named bits")
	bitNames       = flag.String("bit-names", "", "Comma-separated list of exactly 32 bit names, MSB first")
)

// getPortForConnection derives a deterministic port for a named
// connection so several plccli service instances can run side by side
// without colliding on the default port.
func getPortForConnection(baseName string, basePort int) int {
	if baseName == "default" {
		return basePort
	}

	h := fnv.New32a()
	h.Write([]byte(baseName))
	hashValue := h.Sum32()

	return 10000 + int(hashValue%55000)
}

// getServiceDescriptor names the service for log and error messages.
func getServiceDescriptor(connectionName string) string {
	if connectionName == "default" {
		return "OPCUA service"
	}
	return fmt.Sprintf("OPCUA service '%s'", connectionName)
}

func printUsage() {
	fmt.Println("Usage: plccli [flags] opcua get <node-id> [node-id2 node-id3 ...]")
	fmt.Println("       plccli [flags] opcua set <node-id> <value> <data-type>")
	fmt.Println("       plccli [flags] opcua browse [node-id] [max-depth]")
	fmt.Println("       plccli space translate <browse-path>")
	fmt.Println("       plccli publish demo")
	fmt.Println("\nNode ID format: ns=X;i=NUMBER or ns=X;s=STRING (can use comma or semicolon separator)")
	fmt.Println("\nAvailable data types for set: boolean, sbyte, byte, int16, uint16, int32, uint32, int64, uint64, float, double, string")
	fmt.Println("\nOutput formats (--format flag):")
	fmt.Println("  default - Human-readable output")
	fmt.Println("  influx  - InfluxDB Line Protocol format")
	fmt.Println("\nAuthentication options:")
	fmt.Println("  --auth-method UserName (default) - Use username/password authentication")
	fmt.Println("  --auth-method Anonymous - Use anonymous authentication (no credentials)")
	fmt.Println("\nSecurity options:")
	fmt.Println("  --security-policy None|Basic128Rsa15|Basic256|Basic256Sha256")
	fmt.Println("  --security-mode None|Sign|SignAndEncrypt")
	fmt.Println("\nMultiple connections: Use --connection <name> to specify which connection to use")
	fmt.Printf("\nplccli %s (%s, built %s)\n", buildVersion, buildCommit, buildTime)
	flag.PrintDefaults()
}

func handleConnectionError(err error) {
	if strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "cannot connect to") {
		serviceDesc := getServiceDescriptor(*connection)
		fmt.Fprintf(os.Stderr, "Error: %s is not running. Start it with:\n", serviceDesc)
		fmt.Fprintf(os.Stderr, "  plccli --connection %s --service --endpoint opc.tcp://opc-ua-server-ip:4840\n", *connection)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	flag.Parse()

	if *version {
		fmt.Printf("plccli version %s\n", buildVersion)
		fmt.Printf("Commit: %s\n", buildCommit)
		fmt.Printf("Built: %s\n", buildTime)
		fmt.Printf("Copyright Octanis Instruments GmbH 2024\n")
		os.Exit(0)
	}

	args := flag.Args()
	actualPort := getPortForConnection(*connection, *port)

	if *service {
		runService(actualPort)
		return
	}

	if len(args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "opcua":
		runOPCUACommand(args[1:], actualPort)
	case "space":
		runSpaceCommand(args[1:])
	case "publish":
		runPublishCommand(args[1:])
	default:
		fmt.Printf("Unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func runService(actualPort int) {
	serviceDesc := getServiceDescriptor(*connection)
	fmt.Printf("Starting %s on port %d...\n", serviceDesc, actualPort)
	fmt.Printf("\nplccli %s (%s, built %s)\n", buildVersion, buildCommit, buildTime)

	authInfo := ""
	switch {
	case strings.EqualFold(*authMethod, "anonymous"):
		authInfo = "with anonymous authentication"
	case *username != "":
		authInfo = fmt.Sprintf("with username '%s'", *username)
	default:
		authInfo = "without authentication (anonymous)"
	}

	fmt.Printf("Connecting to %s %s\n", *endpoint, authInfo)
	fmt.Printf("Security: Policy=%s, Mode=%s\n", *securityPolicy, *securityMode)

	actualCertFile := *certfile
	actualKeyFile := *keyfile
	if *connection != "default" {
		actualCertFile = strings.TrimSuffix(*certfile, ".pem") + "-" + *connection + ".pem"
		actualKeyFile = strings.TrimSuffix(*keyfile, ".pem") + "-" + *connection + ".pem"
	}

	homeDir, _ := os.UserHomeDir()
	if homeDir != "" && !filepath.IsAbs(actualCertFile) {
		configDir := filepath.Join(homeDir, ".config", "plccli")
		fmt.Printf("Certificates will be stored in: %s\n", configDir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := bridge.Config{
		Endpoint:       *endpoint,
		Username:       *username,
		Password:       *password,
		CertFile:       actualCertFile,
		KeyFile:        actualKeyFile,
		GenerateCert:   *gencert,
		AppURI:         *appuri,
		TimeoutSeconds: *timeout,
		Port:           actualPort,
		Verbose:        *verbose,
		SecurityPolicy: *securityPolicy,
		SecurityMode:   *securityMode,
		AuthMethod:     *authMethod,
		ConnectionName: *connection,
	}

	if err := bridge.Start(ctx, cfg); err != nil {
		log.Fatalf("service exited: %v", err)
	}
}

func runOPCUACommand(args []string, actualPort int) {
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "browse":
		nodeID := "i=84"
		if len(args) >= 2 {
			nodeID = args[1]
		}

		maxDepth := 3
		if len(args) >= 3 {
			if depth, err := strconv.Atoi(args[2]); err == nil {
				maxDepth = depth
			} else {
				fmt.Printf("Warning: Invalid depth value '%s', using default of %d\n", args[2], maxDepth)
			}
		}

		if err := cliclient.BrowseNode(nodeID, maxDepth, "localhost", actualPort, *outputFormat); err != nil {
			handleConnectionError(err)
		}

	case "get":
		if len(args) < 2 {
			fmt.Println("Error: Missing node-id")
			printUsage()
			os.Exit(1)
		}
		nodeIDs := args[1:]
		value, err := cliclient.GetNodeValues(nodeIDs, "localhost", actualPort, *outputFormat, "opcua_node", *extractBits, *bitNames)
		if err != nil {
			handleConnectionError(err)
		}
		fmt.Println(value)

	case "set":
		if len(args) < 4 {
			fmt.Println("Error: Missing arguments for set command")
			printUsage()
			os.Exit(1)
		}
		nodeID := args[1]
		value := args[2]
		dataType := args[3]

		result, err := cliclient.SetNodeValue(nodeID, value, dataType, "localhost", actualPort, *outputFormat)
		if err != nil {
			handleConnectionError(err)
		}
		fmt.Println(result)

	default:
		fmt.Printf("Unknown opcua command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
}
