package cliclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ParseNodeID extracts namespace, identifier type and identifier from
// an OPC UA node ID string of the form ns=X,Y=Z or ns=X;Y=Z.
func ParseNodeID(nodeID string) (string, string, string, error) {
	var namespace, idType, identifier string

	var parts []string
	if strings.Contains(nodeID, ",") {
		parts = strings.Split(nodeID, ",")
	} else if strings.Contains(nodeID, ";") {
		parts = strings.Split(nodeID, ";")
	} else {
		return "", "", "", fmt.Errorf("invalid node ID format. Expected format: ns=X,Y=Z or ns=X;Y=Z")
	}

	if len(parts) == 2 {
		nsParts := strings.Split(parts[0], "=")
		if len(nsParts) == 2 && nsParts[0] == "ns" {
			namespace = nsParts[1]
		}

		idParts := strings.Split(parts[1], "=")
		if len(idParts) == 2 {
			idType = idParts[0]
			identifier = idParts[1]
		}
	}

	if namespace == "" || idType == "" || identifier == "" {
		return "", "", "", fmt.Errorf("invalid node ID format. Expected format: ns=X,Y=Z or ns=X;Y=Z where Y is 'i' or 's'")
	}

	if idType != "i" && idType != "s" {
		return "", "", "", fmt.Errorf("unsupported identifier type '%s'. Only 'i' (numeric) and 's' (string) are supported", idType)
	}

	return namespace, idType, identifier, nil
}

// FormatInfluxOutput converts a value to InfluxDB Line Protocol format.
func FormatInfluxOutput(measurementName, nodeID string, value interface{}, dataType string, endpoint string) string {
	tagEscaper := strings.NewReplacer(
		",", "\\,",
		"=", "\\=",
		" ", "\\ ",
		"\"", "\\\"",
	)

	cleanNodeID := tagEscaper.Replace(nodeID)
	cleanEndpoint := tagEscaper.Replace(endpoint)

	var valueStr string
	switch v := value.(type) {
	case string:
		if t, err := time.Parse("2006-01-02T15:04:05.999999Z", v); err == nil {
			valueStr = fmt.Sprintf("value=%d", t.UnixNano())
		} else if t, err := time.Parse("2006-01-02T15:04:05Z", v); err == nil {
			valueStr = fmt.Sprintf("value=%d", t.UnixNano())
		} else {
			valueStr = fmt.Sprintf("value=1,string_value=\"%s\"", strings.ReplaceAll(v, "\"", "\\\""))
		}
	case bool:
		if v {
			valueStr = "value=1"
		} else {
			valueStr = "value=0"
		}
	case float64, float32, int, int32, int64, uint, uint32, uint64:
		valueStr = fmt.Sprintf("value=%v", v)
	default:
		valueStr = fmt.Sprintf("value=1,string_value=\"%v\"", v)
	}

	timestamp := time.Now().UnixNano()
	return fmt.Sprintf("%s,node_id=%s,endpoint=%s %s %d",
		measurementName,
		cleanNodeID,
		cleanEndpoint,
		valueStr,
		timestamp)
}

// FormatInfluxOutputWithBits formats a uint32 value with bit expansion
// for InfluxDB, returning one line-protocol string per bit.
func FormatInfluxOutputWithBits(measurementName, nodeID string, value interface{}, endpoint string, bitNames []string) ([]string, error) {
	tagEscaper := strings.NewReplacer(
		",", "\\,",
		"=", "\\=",
		" ", "\\ ",
		"\"", "\\\"",
	)

	var uint32Value uint32
	switch v := value.(type) {
	case float64:
		uint32Value = uint32(v)
	case float32:
		uint32Value = uint32(v)
	case int:
		uint32Value = uint32(v)
	case int32:
		uint32Value = uint32(v)
	case int64:
		uint32Value = uint32(v)
	case uint:
		uint32Value = uint32(v)
	case uint32:
		uint32Value = v
	case uint64:
		uint32Value = uint32(v)
	default:
		return nil, fmt.Errorf("value type %T cannot be converted to uint32 for bit extraction", value)
	}

	bits, err := extractBits(uint32Value, bitNames)
	if err != nil {
		return nil, err
	}

	cleanNodeID := tagEscaper.Replace(nodeID)
	cleanEndpoint := tagEscaper.Replace(endpoint)
	timestamp := time.Now().UnixNano()

	lines := make([]string, 0, len(bits))
	for _, bit := range bits {
		cleanBitName := tagEscaper.Replace(bit.Name)
		line := fmt.Sprintf("%s,node_id=%s,endpoint=%s,bit=%d,bit_name=%s value=%d %d",
			measurementName,
			cleanNodeID,
			cleanEndpoint,
			bit.BitNum,
			cleanBitName,
			bit.Value,
			timestamp)
		lines = append(lines, line)
	}

	return lines, nil
}

// SetNodeValue asks the bridge to write a value to a node.
func SetNodeValue(nodeID string, value string, dataType string, host string, port int, format string) (string, error) {
	namespace, idType, identifier, err := ParseNodeID(nodeID)
	if err != nil {
		return "", err
	}

	if dataType == "" {
		return "", fmt.Errorf("data type is required for writing values. Use one of: boolean, sbyte, byte, int16, uint16, int32, uint32, int64, uint64, float, double, string")
	}

	requestBody := map[string]interface{}{
		"namespace":  namespace,
		"type":       idType,
		"identifier": identifier,
		"value":      value,
		"dataType":   dataType,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}

	reqURL := fmt.Sprintf("http://%s:%d/api/node", host, port)

	client := &http.Client{Timeout: 10 * time.Second}

	resp, err := client.Post(reqURL, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("cannot connect to OPCUA service on %s:%d: %v (is it running?)", host, port, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("service error: %s", body)
	}

	var nodeResp NodeResponse
	if err := json.Unmarshal(body, &nodeResp); err != nil {
		return "", fmt.Errorf("error parsing response: %v", err)
	}

	if nodeResp.Error != "" {
		return "", fmt.Errorf("service reported error: %s", nodeResp.Error)
	}

	info, err := getConnectionInfo(host, port)
	if err != nil {
		info = map[string]interface{}{"endpoint": "unknown"}
	}
	endpoint, _ := info["endpoint"].(string)

	if format == "influx" {
		return FormatInfluxOutput("opcua_set", nodeID, value, dataType, endpoint), nil
	}

	return fmt.Sprintf("Successfully set %s to %v with type %s (via %s:%d)", nodeID, nodeResp.Value, dataType, host, port), nil
}

// GetNodeValues reads one or more node values from the bridge,
// dispatching to a single-node or batch request as appropriate.
func GetNodeValues(nodeIDs []string, host string, port int, format string, measurement string, extractBitsFlag bool, bitNamesStr string) (string, error) {
	if len(nodeIDs) == 0 {
		return "", fmt.Errorf("no node IDs provided")
	}

	var bitNames []string
	if bitNamesStr != "" {
		bitNames = strings.Split(bitNamesStr, ",")
		for i := range bitNames {
			bitNames[i] = strings.TrimSpace(bitNames[i])
		}
		if err := validateBitNames(bitNames); err != nil {
			return "", err
		}
	}

	info, err := getConnectionInfo(host, port)
	if err != nil {
		info = map[string]interface{}{"endpoint": "unknown"}
	}
	endpoint, _ := info["endpoint"].(string)

	if len(nodeIDs) == 1 {
		return getNodeValue(nodeIDs[0], host, port, format, endpoint, measurement, extractBitsFlag, bitNames)
	}

	var requestParams []map[string]string
	for _, nodeID := range nodeIDs {
		namespace, idType, identifier, err := ParseNodeID(nodeID)
		if err != nil {
			return "", err
		}
		requestParams = append(requestParams, map[string]string{
			"namespace":  namespace,
			"type":       idType,
			"identifier": identifier,
		})
	}

	jsonData, err := json.Marshal(map[string]interface{}{"nodes": requestParams})
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}

	reqURL := fmt.Sprintf("http://%s:%d/api/nodes", host, port)
	client := &http.Client{Timeout: 10 * time.Second}

	resp, err := client.Post(reqURL, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("cannot connect to OPCUA service on %s:%d: %v (is it running?)", host, port, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("service error: %s", body)
	}

	var batchResp struct {
		Results []NodeResponse `json:"results"`
		Error   string         `json:"error,omitempty"`
	}

	if err := json.Unmarshal(body, &batchResp); err != nil {
		return "", fmt.Errorf("error parsing response: %v", err)
	}

	if batchResp.Error != "" {
		return "", fmt.Errorf("service reported error: %s", batchResp.Error)
	}

	if format == "influx" {
		var lines []string
		for i, result := range batchResp.Results {
			if result.Error != "" {
				continue
			}
			if extractBitsFlag {
				bitLines, err := FormatInfluxOutputWithBits(measurement, nodeIDs[i], result.Value, endpoint, bitNames)
				if err != nil {
					return "", fmt.Errorf("bit expansion failed for %s: %v", nodeIDs[i], err)
				}
				lines = append(lines, bitLines...)
			} else {
				lines = append(lines, FormatInfluxOutput(measurement, nodeIDs[i], result.Value, "", endpoint))
			}
		}
		return strings.Join(lines, "\n"), nil
	}

	var values []string
	for _, result := range batchResp.Results {
		if result.Error != "" {
			values = append(values, fmt.Sprintf("Error: %s", result.Error))
		} else {
			values = append(values, fmt.Sprintf("%v", result.Value))
		}
	}
	return strings.Join(values, "\n"), nil
}

func getNodeValue(nodeID string, host string, port int, format string, endpoint string, measurement string, extractBitsFlag bool, bitNames []string) (string, error) {
	namespace, idType, identifier, err := ParseNodeID(nodeID)
	if err != nil {
		return "", err
	}

	reqURL := fmt.Sprintf("http://%s:%d/api/node?namespace=%s&type=%s&identifier=%s",
		host, port, url.QueryEscape(namespace), url.QueryEscape(idType), url.QueryEscape(identifier))

	client := &http.Client{Timeout: 10 * time.Second}

	resp, err := client.Get(reqURL)
	if err != nil {
		return "", fmt.Errorf("cannot connect to OPCUA service on %s:%d: %v (is it running?)", host, port, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("service error: %s", body)
	}

	var nodeResp NodeResponse
	if err := json.Unmarshal(body, &nodeResp); err != nil {
		return "", fmt.Errorf("error parsing response: %v", err)
	}

	if nodeResp.Error != "" {
		return "", fmt.Errorf("service reported error: %s", nodeResp.Error)
	}

	if format == "influx" {
		if extractBitsFlag {
			bitLines, err := FormatInfluxOutputWithBits(measurement, nodeID, nodeResp.Value, endpoint, bitNames)
			if err != nil {
				return "", fmt.Errorf("bit expansion failed: %v", err)
			}
			return strings.Join(bitLines, "\n"), nil
		}
		return FormatInfluxOutput(measurement, nodeID, nodeResp.Value, "", endpoint), nil
	}

	return fmt.Sprintf("%v", nodeResp.Value), nil
}

// getConnectionInfo queries the bridge's /api/info endpoint for
// diagnostics (the live endpoint URL, connection name).
func getConnectionInfo(host string, port int) (map[string]interface{}, error) {
	client := &http.Client{Timeout: 2 * time.Second}

	reqURL := fmt.Sprintf("http://%s:%d/api/info", host, port)

	resp, err := client.Get(reqURL)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to OPCUA service on %s:%d: %v", host, port, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("service error: %s", body)
	}

	var info map[string]interface{}
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("error parsing response: %v", err)
	}

	return info, nil
}
