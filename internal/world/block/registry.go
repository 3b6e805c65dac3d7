package block

import "sort"

// BlockID представляет идентификатор блока (значение вокселя)
type BlockID uint16

// Константы ID блоков
const (
	AirBlockID        BlockID = iota // 0 - пустота
	StoneBlockID                     // 1
	GrassBlockID                     // 2
	DirtBlockID                      // 3
	SandBlockID                      // 4
	WaterBlockID                     // 5
	DarkStoneBlockID                 // 6
	LightStoneBlockID                // 7
	LavaBlockID                      // 8
	SnowBlockID                      // 9
)

// Info описывает блок палитры
type Info struct {
	Name  string
	Color uint32 // RGB, используется внешним мешером для материалов
}

var registry = make(map[BlockID]Info)

func init() {
	Register(AirBlockID, Info{Name: "air"})
	Register(StoneBlockID, Info{Name: "stone", Color: 0x808080})
	Register(GrassBlockID, Info{Name: "grass", Color: 0x3c9b3c})
	Register(DirtBlockID, Info{Name: "dirt", Color: 0x7a5230})
	Register(SandBlockID, Info{Name: "sand", Color: 0xe0d08a})
	Register(WaterBlockID, Info{Name: "water", Color: 0x2050c0})
	Register(DarkStoneBlockID, Info{Name: "dark_stone", Color: 0x222222})
	Register(LightStoneBlockID, Info{Name: "light_stone", Color: 0xaaaaaa})
	Register(LavaBlockID, Info{Name: "lava", Color: 0xff0000})
	Register(SnowBlockID, Info{Name: "snow", Color: 0xffffff})
}

// Register добавляет блок в палитру (или заменяет существующий)
func Register(id BlockID, info Info) {
	registry[id] = info
}

// Get возвращает описание блока
func Get(id BlockID) (Info, bool) {
	info, exists := registry[id]
	return info, exists
}

// IsValidBlockID проверяет, зарегистрирован ли ID
func IsValidBlockID(id BlockID) bool {
	_, exists := registry[id]
	return exists
}

// IsSolid: любой ненулевой воксель твёрдый
func IsSolid(id BlockID) bool {
	return id != AirBlockID
}

// Name возвращает имя блока или "unknown"
func Name(id BlockID) string {
	if info, ok := registry[id]; ok {
		return info.Name
	}
	return "unknown"
}

// IDs возвращает зарегистрированные ID по возрастанию
func IDs() []BlockID {
	ids := make([]BlockID, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
