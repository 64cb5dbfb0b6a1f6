package mesh

import (
	"github.com/pkg/errors"

	"ogre-mesh-renderer/internal/chunk"
)

// Version selects the geometry encoding of a mesh file. The rest of the
// grammar is shared by all versions.
type Version int

const (
	// Version130 stores geometry as a vertex declaration plus raw vertex buffers.
	Version130 Version = iota
	// Version120 stores fixed position, normal, colour and texcoord streams.
	Version120
	// Version110 is Version120 with texture V measured from the other edge.
	Version110
)

// Versions lists the supported versions, newest first.
var Versions = []Version{Version130, Version120, Version110}

// String returns the version string found in the file header.
func (v Version) String() string {
	switch v {
	case Version130:
		return "[MeshSerializer_v1.30]"
	case Version120:
		return "[MeshSerializer_v1.20]"
	case Version110:
		return "[MeshSerializer_v1.10]"
	}
	return "[MeshSerializer_unknown]"
}

// ParseVersion matches a header version string exactly.
func ParseVersion(s string) (Version, error) {
	for _, v := range Versions {
		if v.String() == s {
			return v, nil
		}
	}
	return 0, errors.Wrapf(chunk.ErrVersionMismatch, "mesh: unsupported version %q", s)
}

func (v Version) declarativeGeometry() bool {
	return v == Version130
}

// flipTexCoordV reports whether 2D texture coordinates are stored as 1-v.
func (v Version) flipTexCoordV() bool {
	return v == Version110
}

// autoBuildEdgeLists is the edge list policy applied after each mesh chunk.
func (v Version) autoBuildEdgeLists() bool {
	return v != Version130
}
