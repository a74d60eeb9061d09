package browsepath

import (
	"strconv"
	"strings"

	"github.com/gopcua/opcua/id"
	"github.com/gopcua/opcua/ua"
)

// ConstructBrowsePath builds a BrowsePath from a starting node and a
// simple dotted path string, e.g. "2:Sensors.Temperature" or an
// absolute path "/Objects.MyDevice". A leading "/" is shorthand for
// "start at the RootFolder"; each dot-separated segment may carry an
// "N:" namespace prefix, defaulting to namespace 0 when absent. Every
// generated element uses reference type i=0, isInverse=false,
// includeSubtypes=false — this is a generic "follow any reference
// forward" hop, not restricted to Organizes/HasComponent.
func ConstructBrowsePath(startingNode *ua.NodeID, pathString string) *ua.BrowsePath {
	start := startingNode
	path := pathString

	if strings.HasPrefix(path, "/") {
		start = ua.NewNumericNodeID(0, id.RootFolder)
		path = strings.TrimPrefix(path, "/")
	}

	var elements []*ua.RelativePathElement
	if path != "" {
		for _, segment := range strings.Split(path, ".") {
			ns := uint16(0)
			name := segment
			if idx := strings.Index(segment, ":"); idx >= 0 {
				if n, err := strconv.Atoi(segment[:idx]); err == nil {
					ns = uint16(n)
					name = segment[idx+1:]
				}
			}
			elements = append(elements, &ua.RelativePathElement{
				ReferenceTypeID: ua.NewNumericNodeID(0, 0),
				IsInverse:       false,
				IncludeSubtypes: false,
				TargetName:      &ua.QualifiedName{NamespaceIndex: ns, Name: name},
			})
		}
	}

	return &ua.BrowsePath{
		NodeID:       start,
		RelativePath: &ua.RelativePath{Elements: elements},
	}
}

// SimpleBrowsePath is ConstructBrowsePath plus TranslateBrowsePath,
// returning the last target's NodeID when the translation succeeds;
// when several targets match, the earlier ones are not reported.
// Unlike the source, it reports failed resolution through its bool
// return rather than asserting exactly one result — an assertion
// failure is not a sane way to fail a lookup against live server data.
func SimpleBrowsePath(r Resolver, startingNode *ua.NodeID, pathString string) (*ua.NodeID, bool) {
	bp := ConstructBrowsePath(startingNode, pathString)
	result := TranslateBrowsePath(r, bp)
	if result.StatusCode != ua.StatusOK || len(result.Targets) == 0 {
		return nil, false
	}
	last := result.Targets[len(result.Targets)-1]
	if last.TargetID == nil {
		return nil, false
	}
	return last.TargetID.NodeID, true
}
