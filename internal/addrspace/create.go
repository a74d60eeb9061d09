package addrspace

import "github.com/gopcua/opcua/ua"

// CreateNodeOptions describes a node to add to an AddressSpace. Only
// the fields relevant to NodeClass are consulted; the rest are simply
// ignored, mirroring how the source's per-class constructors each
// pick the handful of properties they care about out of one options
// object.
type CreateNodeOptions struct {
	NodeID      *ua.NodeID
	NodeClass   ua.NodeClass
	BrowseName  ua.QualifiedName
	DisplayName *ua.LocalizedText
	Description *ua.LocalizedText
	References  []*Reference

	// VariableNode
	Value                   *ua.DataValue
	DataType                *ua.NodeID
	ValueRank               int32
	ArrayDimensions         []uint32
	AccessLevel             byte
	UserAccessLevel         byte
	MinimumSamplingInterval float64
	Historizing             bool

	// MethodNode
	Executable     bool
	UserExecutable bool

	// ObjectTypeNode / VariableTypeNode / DataTypeNode / ReferenceTypeNode
	IsAbstract bool

	// ReferenceTypeNode
	InverseName *ua.LocalizedText
	Symmetric   bool

	// ViewNode
	ContainsNoLoops bool
	EventNotifier   byte
}

func (o CreateNodeOptions) displayName() ua.LocalizedText {
	if o.DisplayName != nil {
		return *o.DisplayName
	}
	return ua.LocalizedText{Text: o.BrowseName.Name}
}

func (o CreateNodeOptions) description() ua.LocalizedText {
	if o.Description != nil {
		return *o.Description
	}
	return ua.LocalizedText{}
}

func (o CreateNodeOptions) inverseName() ua.LocalizedText {
	if o.InverseName != nil {
		return *o.InverseName
	}
	return ua.LocalizedText{}
}

func (o CreateNodeOptions) base() base {
	return base{
		nodeID:      o.NodeID,
		browseName:  o.BrowseName,
		displayName: o.displayName(),
		description: o.description(),
		nodeClass:   o.NodeClass,
		references:  append([]*Reference(nil), o.References...),
	}
}

// CreateNode builds the node-class variant opts.NodeClass selects,
// registers it in the address space, and returns it. An unrecognised
// NodeClass, a duplicate NodeID, or a ReferenceType with no inverse
// name is reported as a *ConstructionError rather than partially
// registering the node.
func (as *AddressSpace) CreateNode(opts CreateNodeOptions) (Node, error) {
	var node Node

	switch opts.NodeClass {
	case ua.NodeClassObject:
		node = &ObjectNode{base: opts.base()}
	case ua.NodeClassVariable:
		node = &VariableNode{
			base:                    opts.base(),
			Value:                   opts.Value,
			DataType:                opts.DataType,
			ValueRank:               opts.ValueRank,
			ArrayDimensions:         opts.ArrayDimensions,
			AccessLevel:             opts.AccessLevel,
			UserAccessLevel:         opts.UserAccessLevel,
			MinimumSamplingInterval: opts.MinimumSamplingInterval,
			Historizing:             opts.Historizing,
		}
	case ua.NodeClassMethod:
		node = &MethodNode{
			base:           opts.base(),
			Executable:     opts.Executable,
			UserExecutable: opts.UserExecutable,
		}
	case ua.NodeClassObjectType:
		node = &ObjectTypeNode{base: opts.base(), IsAbstract: opts.IsAbstract}
	case ua.NodeClassVariableType:
		node = &VariableTypeNode{base: opts.base(), IsAbstract: opts.IsAbstract}
	case ua.NodeClassDataType:
		node = &DataTypeNode{base: opts.base(), IsAbstract: opts.IsAbstract}
	case ua.NodeClassReferenceType:
		node = &ReferenceTypeNode{
			base:        opts.base(),
			InverseName: opts.inverseName(),
			IsAbstract:  opts.IsAbstract,
			Symmetric:   opts.Symmetric,
		}
	case ua.NodeClassView:
		node = &ViewNode{
			base:            opts.base(),
			ContainsNoLoops: opts.ContainsNoLoops,
			EventNotifier:   opts.EventNotifier,
		}
	default:
		return nil, constructionErrorf("createNode", "unknown nodeClass %v", opts.NodeClass)
	}

	if err := as.Register(node); err != nil {
		return nil, err
	}
	return node, nil
}

// MustCreateNode is CreateNode for callers loading a fixed, known-good
// address space at startup — a bad load is a programmer error, not a
// runtime condition to propagate, so it panics instead of returning
// an error. Mirrors the regexp.MustCompile idiom.
func (as *AddressSpace) MustCreateNode(opts CreateNodeOptions) Node {
	node, err := as.CreateNode(opts)
	if err != nil {
		panic(err)
	}
	return node
}
