package world

import "github.com/annel0/voxel-engine/internal/vec"

// DirtyBatcher накапливает чанки, требующие перестроения меша,
// без повторов и в порядке первой пометки.
type DirtyBatcher struct {
	order []vec.Vec3
	set   map[vec.Vec3]struct{}
}

// NewDirtyBatcher создаёт пустой набор
func NewDirtyBatcher() *DirtyBatcher {
	return &DirtyBatcher{set: make(map[vec.Vec3]struct{})}
}

// MarkDirty помечает чанк; повторная пометка ничего не меняет
func (d *DirtyBatcher) MarkDirty(c vec.Vec3) {
	if _, ok := d.set[c]; ok {
		return
	}
	d.set[c] = struct{}{}
	d.order = append(d.order, c)
}

// IsDirty проверяет пометку
func (d *DirtyBatcher) IsDirty(c vec.Vec3) bool {
	_, ok := d.set[c]
	return ok
}

// Len количество помеченных чанков
func (d *DirtyBatcher) Len() int {
	return len(d.order)
}

// Flush возвращает помеченные чанки в порядке пометки и очищает набор
func (d *DirtyBatcher) Flush() []vec.Vec3 {
	if len(d.order) == 0 {
		return nil
	}
	out := d.order
	d.order = nil
	d.set = make(map[vec.Vec3]struct{})
	return out
}
