package enums

import "strings"

type SceneCategory string

const (
	ScenePast    SceneCategory = "past"
	ScenePresent SceneCategory = "present"
	SceneFuture  SceneCategory = "future"
)

func (c SceneCategory) Valid() bool {
	switch c {
	case ScenePast, ScenePresent, SceneFuture:
		return true
	}
	return false
}

func ParseSceneCategory(value string) (SceneCategory, bool) {
	c := SceneCategory(strings.ToLower(strings.TrimSpace(value)))
	return c, c.Valid()
}
