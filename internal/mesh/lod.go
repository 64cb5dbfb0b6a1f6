package mesh

import (
	"github.com/pkg/errors"
)

// lodInfo decodes the LOD chunk. Thresholds are kept in file order without
// checking that they increase.
func (p *parser) lodInfo() error {
	levels, err := p.r.ReadUint16()
	if err != nil {
		return errors.Wrap(err, "level count")
	}
	manual, err := p.r.ReadBool()
	if err != nil {
		return errors.Wrap(err, "manual flag")
	}
	p.m.NumLODLevels = int(levels)
	p.m.IsLODManual = manual

	reduced := max(int(levels)-1, 0)
	if !manual {
		for _, sm := range p.m.SubMeshes {
			sm.LODFaces = make([]*IndexData, reduced)
		}
	}
	p.m.LODUsages = make([]LODUsage, 0, reduced)

	for level := 1; level < int(levels); level++ {
		if _, err := p.r.Require(ChunkMeshLODUsage); err != nil {
			return errors.Wrapf(err, "level %d usage", level)
		}
		var usage LODUsage
		if usage.FromDepthSquared, err = p.r.ReadFloat32(); err != nil {
			return errors.Wrapf(err, "level %d distance", level)
		}
		if manual {
			if _, err := p.r.Require(ChunkMeshLODManual); err != nil {
				return errors.Wrapf(err, "level %d manual", level)
			}
			if usage.ManualName, err = p.r.ReadString(); err != nil {
				return errors.Wrapf(err, "level %d manual mesh name", level)
			}
		} else {
			for i, sm := range p.m.SubMeshes {
				if _, err := p.r.Require(ChunkMeshLODGenerated); err != nil {
					return errors.Wrapf(err, "level %d submesh %d generated", level, i)
				}
				count, err := p.r.ReadUint32()
				if err != nil {
					return errors.Wrapf(err, "level %d submesh %d index count", level, i)
				}
				is32, err := p.r.ReadBool()
				if err != nil {
					return errors.Wrapf(err, "level %d submesh %d index width", level, i)
				}
				id, err := p.indexData(int(count), is32)
				if err != nil {
					return errors.Wrapf(err, "level %d submesh %d indices", level, i)
				}
				sm.LODFaces[level-1] = id
			}
		}
		p.m.LODUsages = append(p.m.LODUsages, usage)
	}
	return nil
}
