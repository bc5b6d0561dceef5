package theme

import (
	"fmt"
	"strings"
)

// Level is the difficulty tag of a [Difficulty].
type Level int8

const (
	Easy Level = iota + 1
	Medium
	Hard
)

var levelNames = map[Level]string{
	Easy:   "Easy",
	Medium: "Medium",
	Hard:   "Hard",
}

// Levels lists all valid levels in order.
var Levels = []Level{Easy, Medium, Hard}

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	_, ok := levelNames[l]
	return ok
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Level(%d)", int8(l))
}

// MarshalText encodes the level as its name.
func (l Level) MarshalText() ([]byte, error) {
	name, ok := levelNames[l]
	if !ok {
		return nil, fmt.Errorf("%w: unknown difficulty level %d", ErrInvalid, int8(l))
	}
	return []byte(name), nil
}

// UnmarshalText decodes a level name, ignoring case.
func (l *Level) UnmarshalText(text []byte) error {
	for level, name := range levelNames {
		if strings.EqualFold(name, string(text)) {
			*l = level
			return nil
		}
	}
	return fmt.Errorf("%w: unknown difficulty level %q", ErrInvalid, text)
}

// ResourceType is the media kind of a [Resource].
type ResourceType int8

const (
	Text ResourceType = iota + 1
	Image
	Scene
	Audio
	Video
)

var resourceTypeNames = map[ResourceType]string{
	Text:  "Text",
	Image: "Image",
	Scene: "Scene",
	Audio: "Audio",
	Video: "Video",
}

// ResourceTypes lists all valid resource types in order.
var ResourceTypes = []ResourceType{Text, Image, Scene, Audio, Video}

// Valid reports whether r is a known resource type.
func (r ResourceType) Valid() bool {
	_, ok := resourceTypeNames[r]
	return ok
}

func (r ResourceType) String() string {
	if name, ok := resourceTypeNames[r]; ok {
		return name
	}
	return fmt.Sprintf("ResourceType(%d)", int8(r))
}

// MarshalText encodes the resource type as its name.
func (r ResourceType) MarshalText() ([]byte, error) {
	name, ok := resourceTypeNames[r]
	if !ok {
		return nil, fmt.Errorf("%w: unknown resource type %d", ErrInvalid, int8(r))
	}
	return []byte(name), nil
}

// UnmarshalText decodes a resource type name, ignoring case.
func (r *ResourceType) UnmarshalText(text []byte) error {
	for rt, name := range resourceTypeNames {
		if strings.EqualFold(name, string(text)) {
			*r = rt
			return nil
		}
	}
	return fmt.Errorf("%w: unknown resource type %q", ErrInvalid, text)
}
