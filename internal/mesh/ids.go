package mesh

// Mesh file chunk identifiers.
const (
	ChunkHeader = 0x1000

	ChunkMesh = 0x3000

	ChunkSubMesh               = 0x4000
	ChunkSubMeshOperation      = 0x4010
	ChunkSubMeshBoneAssignment = 0x4100
	ChunkGeometry              = 0x5000
	ChunkGeometryVertexDecl    = 0x5100
	ChunkGeometryVertexElement = 0x5110
	ChunkGeometryVertexBuffer  = 0x5200
	ChunkGeometryVertexBufData = 0x5210
	ChunkMeshSkeletonLink      = 0x6000
	ChunkMeshBoneAssignment    = 0x7000
	ChunkMeshLOD               = 0x8000
	ChunkMeshLODUsage          = 0x8100
	ChunkMeshLODManual         = 0x8110
	ChunkMeshLODGenerated      = 0x8120
	ChunkMeshBounds            = 0x9000
	ChunkSubMeshNameTable      = 0xA000
	ChunkSubMeshNameTableElem  = 0xA100
	ChunkEdgeLists             = 0xB000
	ChunkEdgeListLOD           = 0xB100
	ChunkEdgeGroup             = 0xB110
)

// Geometry sub-chunks of the 1.20 and 1.10 formats. Positions are stored
// inline at the start of the geometry chunk.
const (
	ChunkGeometryNormals   = 0x5100
	ChunkGeometryColours   = 0x5200
	ChunkGeometryTexCoords = 0x5300
)
