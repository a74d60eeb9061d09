package cliclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"
	"time"
)

// getEndpointTag gets a cleaned endpoint tag for InfluxDB format.
func getEndpointTag(host string, port int) string {
	info, err := getConnectionInfo(host, port)
	if err != nil {
		return "unknown"
	}

	endpoint, ok := info["endpoint"].(string)
	if !ok {
		return "unknown"
	}

	tagEscaper := strings.NewReplacer(
		",", "\\,",
		"=", "\\=",
		" ", "\\ ",
	)
	return tagEscaper.Replace(endpoint)
}

// BrowseNode asks the bridge to browse the address space rooted at
// startNodeID and prints the discovered variable nodes.
func BrowseNode(startNodeID string, maxDepth int, host string, port int, format string) error {
	client := &http.Client{Timeout: 120 * time.Second}

	reqURL := fmt.Sprintf("http://%s:%d/api/browse?nodeid=%s&maxdepth=%d",
		host, port, url.QueryEscape(startNodeID), maxDepth)

	resp, err := client.Get(reqURL)
	if err != nil {
		return fmt.Errorf("cannot connect to OPCUA service on %s:%d: %v (is it running?)", host, port, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service error: %s", body)
	}

	var browseResp struct {
		Nodes []struct {
			NodeId      string `json:"nodeId"`
			BrowseName  string `json:"browseName"`
			Path        string `json:"path"`
			DataType    string `json:"dataType"`
			Writable    bool   `json:"writable"`
			Description string `json:"description"`
		} `json:"nodes"`
		Error string `json:"error,omitempty"`
	}

	if err := json.Unmarshal(body, &browseResp); err != nil {
		return fmt.Errorf("error parsing response: %v", err)
	}

	if browseResp.Error != "" {
		return fmt.Errorf("service reported error: %s", browseResp.Error)
	}

	if format == "influx" {
		timestamp := time.Now().UnixNano()

		for _, node := range browseResp.Nodes {
			measurementName := "opcua_node"
			nodePath := strings.ReplaceAll(node.Path, " ", "_")
			nodePath = strings.ReplaceAll(nodePath, ".", "_")
			nodeId := strings.ReplaceAll(node.NodeId, ";", "_")
			nodeId = strings.ReplaceAll(nodeId, "=", "")
			nodeId = strings.ReplaceAll(nodeId, ",", "_")

			endpointTag := getEndpointTag(host, port)

			fmt.Printf("%s,node_id=%s,path=%s,data_type=%s,endpoint=%s writable=%v,description=\"%s\" %d\n",
				measurementName,
				nodeId,
				nodePath,
				node.DataType,
				endpointTag,
				node.Writable,
				strings.ReplaceAll(node.Description, "\"", "\\\""),
				timestamp)
		}
	} else {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Path\tNodeID\tDataType\tWritable\tDescription")
		fmt.Fprintln(w, "----\t------\t--------\t--------\t-----------")

		for _, node := range browseResp.Nodes {
			fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%s\n",
				node.Path,
				node.NodeId,
				node.DataType,
				node.Writable,
				strings.ReplaceAll(node.Description, "\n", " "))
		}
		w.Flush()
	}

	return nil
}
