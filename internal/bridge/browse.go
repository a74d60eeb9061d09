package bridge

import (
	"context"
	"fmt"

	"github.com/gopcua/opcua"
	"github.com/gopcua/opcua/id"
	"github.com/gopcua/opcua/ua"
)

// NodeInfo is a flattened view of a variable node discovered while
// browsing a live server, used to answer /api/browse requests.
type NodeInfo struct {
	NodeID      *ua.NodeID
	NodeClass   ua.NodeClass
	BrowseName  string
	Description string
	AccessLevel ua.AccessLevelType
	Path        string
	DataType    string
	Writable    bool
}

func doBrowse(ctx context.Context, client *opcua.Client, startNodeID string, maxDepth int) ([]NodeInfo, error) {
	id, err := ua.ParseNodeID(startNodeID)
	if err != nil {
		return nil, fmt.Errorf("invalid node id: %v", err)
	}

	n := client.Node(id)

	return browseRecursive(ctx, n, "", 0, maxDepth)
}

func browseRecursive(ctx context.Context, n *opcua.Node, path string, level, maxDepth int) ([]NodeInfo, error) {
	if level > maxDepth {
		return nil, nil
	}

	attrs, err := n.Attributes(ctx,
		ua.AttributeIDNodeClass,
		ua.AttributeIDBrowseName,
		ua.AttributeIDDescription,
		ua.AttributeIDAccessLevel,
		ua.AttributeIDDataType)
	if err != nil {
		return nil, err
	}

	info := NodeInfo{NodeID: n.ID}

	if attrs[0].Status == ua.StatusOK {
		info.NodeClass = ua.NodeClass(attrs[0].Value.Int())
	}
	if attrs[1].Status == ua.StatusOK {
		info.BrowseName = attrs[1].Value.String()
	}
	if attrs[2].Status == ua.StatusOK {
		info.Description = attrs[2].Value.String()
	}
	if attrs[3].Status == ua.StatusOK {
		info.AccessLevel = ua.AccessLevelType(attrs[3].Value.Int())
		info.Writable = info.AccessLevel&ua.AccessLevelTypeCurrentWrite == ua.AccessLevelTypeCurrentWrite
	}
	if attrs[4].Status == ua.StatusOK {
		info.DataType = dataTypeName(attrs[4].Value.NodeID())
	}

	info.Path = joinPath(path, info.BrowseName)

	var nodes []NodeInfo
	if info.NodeClass == ua.NodeClassVariable {
		nodes = append(nodes, info)
	}

	browseChildren := func(refType uint32) error {
		refs, err := n.ReferencedNodes(ctx, refType, ua.BrowseDirectionForward, ua.NodeClassAll, true)
		if err != nil {
			return fmt.Errorf("references lookup error: %v", err)
		}
		for _, rn := range refs {
			children, err := browseRecursive(ctx, rn, info.Path, level+1, maxDepth)
			if err != nil {
				return fmt.Errorf("browse children error: %v", err)
			}
			nodes = append(nodes, children...)
		}
		return nil
	}

	if err := browseChildren(id.HasComponent); err != nil {
		return nil, err
	}
	if err := browseChildren(id.Organizes); err != nil {
		return nil, err
	}
	if err := browseChildren(id.HasProperty); err != nil {
		return nil, err
	}

	return nodes, nil
}

func dataTypeName(nodeID *ua.NodeID) string {
	switch nodeID.IntID() {
	case id.DateTime, id.UtcTime:
		return "time.Time"
	case id.Boolean:
		return "bool"
	case id.SByte:
		return "int8"
	case id.Int16:
		return "int16"
	case id.Int32:
		return "int32"
	case id.Byte:
		return "byte"
	case id.UInt16:
		return "uint16"
	case id.UInt32:
		return "uint32"
	case id.String:
		return "string"
	case id.Float:
		return "float32"
	case id.Double:
		return "float64"
	default:
		return nodeID.String()
	}
}

func joinPath(a, b string) string {
	if a == "" {
		return b
	}
	return a + "." + b
}
