// Package bridge hosts the long-running process that holds a live
// OPC UA session and exposes it to local plccli invocations over a
// small JSON HTTP API. It is the out-of-scope "session management /
// secure channel establishment" collaborator the address-space and
// publish-engine packages treat as an external contract — this is
// where that contract is actually discharged, using
// github.com/gopcua/opcua directly.
package bridge

import (
	"context"
	"crypto/rsa"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gopcua/opcua"
	uatest "github.com/gopcua/opcua/tests/python"
	"github.com/gopcua/opcua/ua"
)

// NodeResponse mirrors cliclient.NodeResponse; kept as a separate type
// so the bridge has no compile-time dependency on the CLI-facing
// package (only the JSON shape is shared).
type NodeResponse struct {
	NodeID string      `json:"nodeID"`
	Value  interface{} `json:"value"`
	Error  string      `json:"error,omitempty"`
}

// Config holds everything needed to connect to a live server and run
// the HTTP bridge.
type Config struct {
	Endpoint       string
	Username       string
	Password       string
	CertFile       string
	KeyFile        string
	GenerateCert   bool
	AppURI         string
	TimeoutSeconds int
	Port           int
	Verbose        bool
	SecurityPolicy string
	SecurityMode   string
	AuthMethod     string
	ConnectionName string
}

type service struct {
	cfg Config

	mu     sync.Mutex
	client *opcua.Client
}

// Start connects to the configured OPC UA server and serves the
// bridge's HTTP API until ctx is cancelled or a termination signal is
// delivered by the caller's context.
func Start(ctx context.Context, cfg Config) error {
	s := &service{cfg: cfg}

	log.Printf("[%s] Starting OPCUA service for connection '%s' on port %d", cfg.ConnectionName, cfg.ConnectionName, cfg.Port)

	if err := s.connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to OPCUA server: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/browse", s.handleBrowseRequest)
	mux.HandleFunc("/api/node", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.handleNodeRequest(w, r)
		case http.MethodPost:
			s.handleNodeWriteRequest(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/nodes", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.handleBatchNodeRequest(w, r)
	})
	mux.HandleFunc("/api/info", func(w http.ResponseWriter, r *http.Request) {
		info := map[string]interface{}{
			"connection": cfg.ConnectionName,
			"port":       cfg.Port,
			"endpoint":   cfg.Endpoint,
			"status":     "connected",
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(info)
	})

	serverAddr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	server := &http.Server{Addr: serverAddr, Handler: mux}

	log.Printf("[%s] OPCUA service running on http://%s", cfg.ConnectionName, serverAddr)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[%s] HTTP server error: %v", cfg.ConnectionName, err)
		}
	}()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.keepAlive(ctx)

		case <-ctx.Done():
			log.Printf("[%s] Shutting down service...", cfg.ConnectionName)

			s.mu.Lock()
			if s.client != nil {
				s.client.Close(context.Background())
				s.client = nil
			}
			s.mu.Unlock()

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Printf("[%s] HTTP server shutdown error: %v", cfg.ConnectionName, err)
			}
			return nil
		}
	}
}

func (s *service) keepAlive(ctx context.Context) {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()

	if client == nil {
		s.reconnect(ctx)
		return
	}

	timeNode := client.Node(ua.NewNumericNodeID(0, 2258))
	if _, err := timeNode.Value(ctx); err != nil {
		log.Printf("[%s] Keep-alive failed: %v", s.cfg.ConnectionName, err)
		s.reconnect(ctx)
	} else if s.cfg.Verbose {
		log.Printf("[%s] Keep-alive successful", s.cfg.ConnectionName)
	}
}

func (s *service) connect(ctx context.Context) error {
	cfg := s.cfg
	log.Printf("[%s] Connecting to OPCUA server at %s...", cfg.ConnectionName, cfg.Endpoint)

	timeoutDuration := time.Duration(cfg.TimeoutSeconds) * time.Second

	certfile, keyfile, err := resolveCertPaths(cfg.ConnectionName, cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return err
	}

	if cfg.GenerateCert {
		if err := ensureCert(cfg.ConnectionName, certfile, keyfile, cfg.AppURI); err != nil {
			return err
		}
	}

	log.Printf("[%s] Loading certificate...", cfg.ConnectionName)
	c, err := tls.LoadX509KeyPair(certfile, keyfile)
	if err != nil {
		return fmt.Errorf("failed to load certificate: %v", err)
	}
	cert := c.Certificate[0]
	privateKey, ok := c.PrivateKey.(*rsa.PrivateKey)
	if !ok {
		return fmt.Errorf("invalid private key type")
	}

	log.Printf("[%s] Getting endpoints...", cfg.ConnectionName)
	endpointCtx, cancel := context.WithTimeout(ctx, timeoutDuration)
	defer cancel()

	endpoints, err := opcua.GetEndpoints(endpointCtx, cfg.Endpoint)
	if err != nil {
		return fmt.Errorf("failed to get endpoints: %v", err)
	}
	log.Printf("[%s] Found %d endpoints", cfg.ConnectionName, len(endpoints))

	serverEndpoint, authType, err := selectEndpoint(endpoints, cfg)
	if err != nil {
		return err
	}

	log.Printf("[%s] Selected endpoint: %s with %s/%s",
		cfg.ConnectionName, serverEndpoint.EndpointURL,
		serverEndpoint.SecurityPolicyURI,
		serverEndpoint.SecurityMode)

	opts := []opcua.Option{
		opcua.DialTimeout(timeoutDuration),
		opcua.RequestTimeout(timeoutDuration),
		opcua.SessionTimeout(timeoutDuration * 2),
		opcua.Certificate(cert),
		opcua.PrivateKey(privateKey),
		opcua.SecurityFromEndpoint(serverEndpoint, authType),
		opcua.AutoReconnect(true),
	}
	if authType == ua.UserTokenTypeUserName {
		opts = append(opts, opcua.AuthUsername(cfg.Username, cfg.Password))
	} else {
		opts = append(opts, opcua.AuthAnonymous())
	}

	log.Printf("[%s] Creating client...", cfg.ConnectionName)
	client, err := opcua.NewClient(cfg.Endpoint, opts...)
	if err != nil {
		return fmt.Errorf("failed to create client: %v", err)
	}

	log.Printf("[%s] Connecting to server...", cfg.ConnectionName)
	connectCtx, cancel := context.WithTimeout(ctx, timeoutDuration)
	defer cancel()

	if err := client.Connect(connectCtx); err != nil {
		return fmt.Errorf("failed to connect: %v", err)
	}

	log.Printf("[%s] Successfully connected to OPCUA server", cfg.ConnectionName)

	s.mu.Lock()
	s.client = client
	s.mu.Unlock()

	return nil
}

func selectEndpoint(endpoints []*ua.EndpointDescription, cfg Config) (*ua.EndpointDescription, ua.UserTokenType, error) {
	wantAnonymous := strings.EqualFold(cfg.AuthMethod, "Anonymous")
	wantTokenType := ua.UserTokenTypeUserName
	if wantAnonymous {
		wantTokenType = ua.UserTokenTypeAnonymous
	}

	wantPolicy := securityPolicyURI(cfg.SecurityPolicy)
	wantMode := securityModeFromString(cfg.SecurityMode)

	var fallback *ua.EndpointDescription
	for _, e := range endpoints {
		if e.SecurityPolicyURI != wantPolicy || e.SecurityMode != wantMode {
			continue
		}
		for _, t := range e.UserIdentityTokens {
			if t.TokenType == wantTokenType {
				return e, wantTokenType, nil
			}
		}
		if fallback == nil {
			fallback = e
		}
	}

	if fallback != nil {
		return fallback, wantTokenType, nil
	}

	return nil, 0, fmt.Errorf("no compatible endpoint found")
}

func securityPolicyURI(name string) string {
	switch strings.ToLower(name) {
	case "none":
		return ua.SecurityPolicyURINone
	case "basic128rsa15":
		return ua.SecurityPolicyURIBasic128Rsa15
	case "basic256sha256":
		return ua.SecurityPolicyURIBasic256Sha256
	default:
		return ua.SecurityPolicyURIBasic256
	}
}

func securityModeFromString(name string) ua.MessageSecurityMode {
	switch strings.ToLower(name) {
	case "none":
		return ua.MessageSecurityModeNone
	case "sign":
		return ua.MessageSecurityModeSign
	default:
		return ua.MessageSecurityModeSignAndEncrypt
	}
}

func resolveCertPaths(connectionName, certfile, keyfile string) (string, string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Printf("[%s] Warning: Could not get user home directory: %v. Using current directory.", connectionName, err)
		homeDir = "."
	} else {
		configDir := filepath.Join(homeDir, ".config")
		if err := os.MkdirAll(configDir, 0755); err != nil {
			log.Printf("[%s] Warning: Could not create %s directory: %v. Using current directory.", connectionName, configDir, err)
			homeDir = "."
		} else {
			plcConfigDir := filepath.Join(configDir, "plccli")
			if err := os.MkdirAll(plcConfigDir, 0755); err != nil {
				log.Printf("[%s] Warning: Could not create %s directory: %v. Using current directory.", connectionName, plcConfigDir, err)
				homeDir = "."
			} else {
				homeDir = plcConfigDir
			}
		}
	}

	if !filepath.IsAbs(certfile) {
		certfile = filepath.Join(homeDir, filepath.Base(certfile))
	}
	if !filepath.IsAbs(keyfile) {
		keyfile = filepath.Join(homeDir, filepath.Base(keyfile))
	}

	log.Printf("[%s] Using certificate path: %s", connectionName, certfile)
	log.Printf("[%s] Using key path: %s", connectionName, keyfile)

	return certfile, keyfile, nil
}

func ensureCert(connectionName, certfile, keyfile, appURI string) error {
	log.Printf("[%s] Checking for existing certificate", connectionName)
	if _, err := os.Stat(certfile); os.IsNotExist(err) {
		log.Printf("[%s] Certificate doesn't exist, generating...", connectionName)
		certPEM, keyPEM, err := uatest.GenerateCert(appURI, 2048, 24*time.Hour)
		if err != nil {
			return fmt.Errorf("failed to generate cert: %v", err)
		}
		if err := os.WriteFile(certfile, certPEM, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %v", certfile, err)
		}
		if err := os.WriteFile(keyfile, keyPEM, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %v", keyfile, err)
		}
		log.Printf("[%s] Generated %s and %s", connectionName, certfile, keyfile)
	} else {
		log.Printf("[%s] Using existing certificate", connectionName)
	}
	return nil
}

func (s *service) reconnect(ctx context.Context) {
	log.Printf("[%s] Attempting to reconnect...", s.cfg.ConnectionName)

	s.mu.Lock()
	if s.client != nil {
		log.Printf("[%s] Closing existing connection...", s.cfg.ConnectionName)
		s.client.Close(ctx)
		s.client = nil
	}
	s.mu.Unlock()

	maxRetries := 5
	for attempt := 0; attempt < maxRetries; attempt++ {
		reconnectTimeout := time.Duration(s.cfg.TimeoutSeconds) * time.Second
		reconnectCtx, cancel := context.WithTimeout(context.Background(), reconnectTimeout)

		log.Printf("[%s] Reconnection attempt %d/%d...", s.cfg.ConnectionName, attempt+1, maxRetries)
		err := s.connect(reconnectCtx)
		cancel()

		if err == nil {
			log.Printf("[%s] Reconnection successful on attempt %d", s.cfg.ConnectionName, attempt+1)
			return
		}

		log.Printf("[%s] Reconnection attempt %d failed: %v", s.cfg.ConnectionName, attempt+1, err)
		if attempt < maxRetries-1 {
			backoffTime := time.Duration(1<<uint(attempt)) * time.Second
			if backoffTime > 30*time.Second {
				backoffTime = 30 * time.Second
			}
			log.Printf("[%s] Waiting %v before next attempt...", s.cfg.ConnectionName, backoffTime)
			time.Sleep(backoffTime)
		}
	}

	log.Printf("[%s] Failed to reconnect after %d attempts, will try again on next keep-alive check", s.cfg.ConnectionName, maxRetries)
}

func (s *service) handleNodeRequest(w http.ResponseWriter, r *http.Request) {
	namespace := r.URL.Query().Get("namespace")
	idType := r.URL.Query().Get("type")
	identifier := r.URL.Query().Get("identifier")

	if namespace == "" || idType == "" || identifier == "" {
		http.Error(w, "Missing required parameters: namespace, type, and identifier", http.StatusBadRequest)
		return
	}

	id, nodeIDStr, err := parseFlexibleNodeID(namespace, idType, identifier)
	if err != nil {
		sendJSONResponse(w, NodeResponse{NodeID: nodeIDStr, Error: err.Error()})
		return
	}

	s.mu.Lock()
	client := s.client
	s.mu.Unlock()

	if client == nil {
		http.Error(w, "OPCUA client not connected", http.StatusServiceUnavailable)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.cfg.Verbose {
		log.Printf("[%s] Reading node: %v", s.cfg.ConnectionName, id)
	}

	node := client.Node(id)
	value, err := node.Value(ctx)
	if err != nil {
		sendJSONResponse(w, NodeResponse{NodeID: nodeIDStr, Error: fmt.Sprintf("Failed to read node: %v", err)})
		return
	}

	sendJSONResponse(w, NodeResponse{NodeID: nodeIDStr, Value: value.Value()})
}

func (s *service) handleBatchNodeRequest(w http.ResponseWriter, r *http.Request) {
	var batchRequest struct {
		Nodes []map[string]string `json:"nodes"`
	}

	if err := json.NewDecoder(r.Body).Decode(&batchRequest); err != nil {
		sendJSONResponseGeneric(w, map[string]interface{}{"error": fmt.Sprintf("Failed to parse request: %v", err)})
		return
	}

	if len(batchRequest.Nodes) == 0 {
		sendJSONResponseGeneric(w, map[string]interface{}{"error": "No nodes specified in request"})
		return
	}

	s.mu.Lock()
	client := s.client
	s.mu.Unlock()

	if client == nil {
		sendJSONResponseGeneric(w, map[string]interface{}{"error": "OPCUA client not connected"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var results []NodeResponse
	for _, nodeParams := range batchRequest.Nodes {
		namespace := nodeParams["namespace"]
		idType := nodeParams["type"]
		identifier := nodeParams["identifier"]

		if namespace == "" || idType == "" || identifier == "" {
			results = append(results, NodeResponse{
				NodeID: fmt.Sprintf("ns=%s;%s=%s", namespace, idType, identifier),
				Error:  "Missing required node parameters",
			})
			continue
		}

		id, nodeIDStr, err := parseFlexibleNodeID(namespace, idType, identifier)
		if err != nil {
			results = append(results, NodeResponse{NodeID: nodeIDStr, Error: err.Error()})
			continue
		}

		node := client.Node(id)
		value, err := node.Value(ctx)
		if err != nil {
			results = append(results, NodeResponse{NodeID: nodeIDStr, Error: fmt.Sprintf("Failed to read node: %v", err)})
		} else {
			results = append(results, NodeResponse{NodeID: nodeIDStr, Value: value.Value()})
		}
	}

	sendJSONResponseGeneric(w, map[string]interface{}{"results": results})
}

func (s *service) handleNodeWriteRequest(w http.ResponseWriter, r *http.Request) {
	var writeRequest struct {
		Namespace  string `json:"namespace"`
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
		Value      string `json:"value"`
		DataType   string `json:"dataType"`
	}

	if err := json.NewDecoder(r.Body).Decode(&writeRequest); err != nil {
		sendJSONResponse(w, NodeResponse{Error: fmt.Sprintf("Failed to parse request: %v", err)})
		return
	}

	if writeRequest.Namespace == "" || writeRequest.Type == "" || writeRequest.Identifier == "" {
		sendJSONResponse(w, NodeResponse{Error: "Missing required fields: namespace, type, and identifier are required"})
		return
	}

	if writeRequest.DataType == "" {
		sendJSONResponse(w, NodeResponse{Error: "Data type is required for writing values"})
		return
	}

	id, nodeIDStr, err := parseFlexibleNodeID(writeRequest.Namespace, writeRequest.Type, writeRequest.Identifier)
	if err != nil {
		sendJSONResponse(w, NodeResponse{NodeID: nodeIDStr, Error: err.Error()})
		return
	}

	s.mu.Lock()
	client := s.client
	s.mu.Unlock()

	if client == nil {
		sendJSONResponse(w, NodeResponse{NodeID: nodeIDStr, Error: "OPCUA client not connected"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	variant, err := variantForWrite(writeRequest.DataType, writeRequest.Value)
	if err != nil {
		sendJSONResponse(w, NodeResponse{NodeID: nodeIDStr, Error: err.Error()})
		return
	}

	req := &ua.WriteRequest{
		NodesToWrite: []*ua.WriteValue{
			{
				NodeID:      id,
				AttributeID: ua.AttributeIDValue,
				Value: &ua.DataValue{
					EncodingMask: ua.DataValueValue,
					Value:        variant,
				},
			},
		},
	}

	resp, err := client.Write(ctx, req)
	if err != nil {
		sendJSONResponse(w, NodeResponse{NodeID: nodeIDStr, Error: fmt.Sprintf("Failed to write value: %v", err)})
		return
	}

	if resp.Results[0] != ua.StatusOK {
		sendJSONResponse(w, NodeResponse{NodeID: nodeIDStr, Error: fmt.Sprintf("Write operation failed with status: %v", resp.Results[0])})
		return
	}

	sendJSONResponse(w, NodeResponse{NodeID: nodeIDStr, Value: writeRequest.Value})
}

func variantForWrite(dataType, value string) (*ua.Variant, error) {
	switch strings.ToLower(dataType) {
	case "boolean":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("invalid boolean value: %v", err)
		}
		return ua.NewVariant(v)
	case "sbyte":
		v, err := strconv.ParseInt(value, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid sbyte value: %v", err)
		}
		return ua.NewVariant(int8(v))
	case "byte":
		v, err := strconv.ParseUint(value, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid byte value: %v", err)
		}
		return ua.NewVariant(uint8(v))
	case "int16":
		v, err := strconv.ParseInt(value, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid int16 value: %v", err)
		}
		return ua.NewVariant(int16(v))
	case "uint16":
		v, err := strconv.ParseUint(value, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid uint16 value: %v", err)
		}
		return ua.NewVariant(uint16(v))
	case "int32":
		v, err := strconv.ParseInt(value, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid int32 value: %v", err)
		}
		return ua.NewVariant(int32(v))
	case "uint32":
		v, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid uint32 value: %v", err)
		}
		return ua.NewVariant(uint32(v))
	case "int64":
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid int64 value: %v", err)
		}
		return ua.NewVariant(v)
	case "uint64":
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid uint64 value: %v", err)
		}
		return ua.NewVariant(v)
	case "float":
		v, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid float value: %v", err)
		}
		return ua.NewVariant(float32(v))
	case "double":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid double value: %v", err)
		}
		return ua.NewVariant(v)
	case "string":
		return ua.NewVariant(value)
	default:
		return nil, fmt.Errorf("unsupported data type: %s. Use one of: boolean, sbyte, byte, int16, uint16, int32, uint32, int64, uint64, float, double, string", dataType)
	}
}

// parseFlexibleNodeID builds a node ID string first with the standard
// semicolon separator, then with a comma, since some tooling upstream
// of plccli still emits the old comma-separated form.
func parseFlexibleNodeID(namespace, idType, identifier string) (*ua.NodeID, string, error) {
	nodeIDStr := fmt.Sprintf("ns=%s;%s=%s", namespace, idType, identifier)
	id, err := ua.ParseNodeID(nodeIDStr)
	if err == nil {
		return id, nodeIDStr, nil
	}

	altNodeIDStr := fmt.Sprintf("ns=%s,%s=%s", namespace, idType, identifier)
	id, err2 := ua.ParseNodeID(altNodeIDStr)
	if err2 == nil {
		return id, altNodeIDStr, nil
	}

	return nil, nodeIDStr, fmt.Errorf("invalid node ID, tried both semicolon and comma formats: %v", err)
}

func sendJSONResponse(w http.ResponseWriter, response NodeResponse) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func sendJSONResponseGeneric(w http.ResponseWriter, response interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (s *service) handleBrowseRequest(w http.ResponseWriter, r *http.Request) {
	nodeIDStr := r.URL.Query().Get("nodeid")
	if nodeIDStr == "" {
		nodeIDStr = "i=84"
	}
	nodeIDStr = strings.Replace(nodeIDStr, ",", ";", 1)

	maxDepth := 10
	if v := r.URL.Query().Get("maxdepth"); v != "" {
		if depth, err := strconv.Atoi(v); err == nil {
			maxDepth = depth
		}
	}

	s.mu.Lock()
	client := s.client
	s.mu.Unlock()

	if client == nil {
		http.Error(w, "OPCUA client not connected", http.StatusServiceUnavailable)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	nodes, err := doBrowse(ctx, client, nodeIDStr, maxDepth)
	if err != nil {
		sendJSONResponseGeneric(w, map[string]interface{}{"error": fmt.Sprintf("Browse failed: %v", err)})
		return
	}

	result := make([]map[string]interface{}, len(nodes))
	for i, node := range nodes {
		result[i] = map[string]interface{}{
			"nodeId":      node.NodeID.String(),
			"browseName":  node.BrowseName,
			"path":        node.Path,
			"dataType":    node.DataType,
			"writable":    node.Writable,
			"description": node.Description,
		}
	}

	sendJSONResponseGeneric(w, map[string]interface{}{"nodes": result})
}
