package render

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/campfire/geometry"
)

// gpuMesh holds the vertex and index buffers of one uploaded mesh. It is
// attached to the mesh as its GPU handle, so disposing the mesh releases
// the buffers and evicts the cache entry.
type gpuMesh struct {
	id         geometry.MeshId
	positions  *wgpu.Buffer
	normals    *wgpu.Buffer
	indices    *wgpu.Buffer
	indexCount uint32
	cache      *meshCache
	released   bool
}

func (g *gpuMesh) Release() {
	if g.released {
		return
	}
	g.released = true
	for _, b := range []*wgpu.Buffer{g.positions, g.normals, g.indices} {
		if b != nil {
			b.Release()
		}
	}
	if g.cache != nil {
		g.cache.evict(g.id, g)
	}
}

// meshCache uploads each mesh once, keyed by its id.
type meshCache struct {
	upload  func(*geometry.Mesh) (*gpuMesh, error)
	entries map[geometry.MeshId]*gpuMesh
}

func newMeshCache(upload func(*geometry.Mesh) (*gpuMesh, error)) *meshCache {
	return &meshCache{upload: upload, entries: make(map[geometry.MeshId]*gpuMesh)}
}

func (c *meshCache) get(m *geometry.Mesh) (*gpuMesh, error) {
	if g, ok := c.entries[m.Id]; ok {
		return g, nil
	}
	g, err := c.upload(m)
	if err != nil {
		return nil, err
	}
	g.id = m.Id
	g.cache = c
	c.entries[m.Id] = g
	m.AttachGPU(g)
	return g, nil
}

func (c *meshCache) evict(id geometry.MeshId, g *gpuMesh) {
	if c.entries[id] == g {
		delete(c.entries, id)
	}
}

func (c *meshCache) len() int { return len(c.entries) }

// release frees every entry. Meshes still holding a handle see it as
// already released.
func (c *meshCache) release() {
	for _, g := range c.entries {
		g.cache = nil
		g.Release()
	}
	clear(c.entries)
}

func uploadMesh(device *wgpu.Device, m *geometry.Mesh) (*gpuMesh, error) {
	positions, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Mesh Positions",
		Contents: wgpu.ToBytes(m.Positions),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return nil, err
	}
	normals, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Mesh Normals",
		Contents: wgpu.ToBytes(m.Normals),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		positions.Release()
		return nil, err
	}
	indices, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Mesh Indices",
		Contents: wgpu.ToBytes(m.Indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		positions.Release()
		normals.Release()
		return nil, err
	}
	return &gpuMesh{
		positions:  positions,
		normals:    normals,
		indices:    indices,
		indexCount: uint32(len(m.Indices)),
	}, nil
}
