package theme

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func sampleTheme() *Theme {
	th := New("Geography")
	st := NewSubTheme("Capitals")
	easy := NewDifficulty(Easy)
	easy.AddQuestion(NewQuestion(1,
		Resource{Name: "prompt", Type: Text, URI: "res/capitals/1.txt"},
		Resource{Name: "map", Type: Image, URI: "res/capitals/1.png"},
	))
	easy.AddQuestion(NewQuestion(2))
	st.AddDifficulty(easy)
	st.AddDifficulty(NewDifficulty(Hard))
	th.AddSubTheme(st)
	return th
}

func TestKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
	}{
		{name: "Test15", want: "test15"},
		{name: "test15", want: "test15"},
		{name: "ÁGUA Viva", want: "água viva"},
		{name: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Key(tt.name); got != tt.want {
				t.Errorf("Key(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestClone_IsDeep(t *testing.T) {
	t.Parallel()

	orig := sampleTheme()
	c := orig.Clone()
	if !Equal(orig, c) {
		t.Fatal("clone should equal original")
	}

	c.Name = "Other"
	c.SubThemes[0].Name = "changed"
	c.SubThemes[0].Difficulties[0].Questions[0].Resources[0].URI = "changed"

	if orig.Name != "Geography" {
		t.Errorf("original name changed to %q", orig.Name)
	}
	if orig.SubThemes[0].Name != "Capitals" {
		t.Errorf("original subtheme changed to %q", orig.SubThemes[0].Name)
	}
	if got := orig.SubThemes[0].Difficulties[0].Questions[0].Resources[0].URI; got != "res/capitals/1.txt" {
		t.Errorf("original resource URI changed to %q", got)
	}
}

func TestClone_Nil(t *testing.T) {
	t.Parallel()

	var th *Theme
	if th.Clone() != nil {
		t.Error("Clone() of nil should be nil")
	}
}

func TestEqual_NilAndEmptySlices(t *testing.T) {
	t.Parallel()

	a := &Theme{Name: "x"}
	b := New("x")
	if !Equal(a, b) {
		t.Error("nil and empty subthemes should compare equal")
	}
	if Equal(a, New("y")) {
		t.Error("different names should not compare equal")
	}
	if Equal(a, nil) {
		t.Error("non-nil should not equal nil")
	}
	if !Equal(nil, nil) {
		t.Error("nil should equal nil")
	}
}

func TestJSON_WireFormat(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(sampleTheme())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	for _, want := range []string{
		`"name":"Geography"`,
		`"sub_themes":[`,
		`"difficulties":[`,
		`"level":"Easy"`,
		`"level":"Hard"`,
		`"resource_type":"Image"`,
		`"resource_uri":"res/capitals/1.png"`,
		`"resource_name":"prompt"`,
		`"id":1`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("encoded theme missing %s\n%s", want, data)
		}
	}
}

func TestJSON_DecodesSnakeCaseFiles(t *testing.T) {
	t.Parallel()

	data := `{"name":"Test15","sub_themes":[{"name":"Sub","difficulties":[
		{"level":"Medium","questions":[{"id":7,"resources":[
			{"resource_name":"clip","resource_type":"Video","resource_uri":"res/clip.mp4"}]}]}]}]}`

	var th Theme
	if err := json.Unmarshal([]byte(data), &th); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	d := th.SubThemes[0].Difficulties[0]
	if d.Level != Medium {
		t.Errorf("level = %v, want Medium", d.Level)
	}
	if got := d.Questions[0].Resources[0].Type; got != Video {
		t.Errorf("resource type = %v, want Video", got)
	}
}

func TestUnmarshalText(t *testing.T) {
	t.Parallel()

	var l Level
	if err := l.UnmarshalText([]byte("hard")); err != nil || l != Hard {
		t.Errorf("UnmarshalText(hard) = %v, %v", l, err)
	}
	if err := l.UnmarshalText([]byte("extreme")); !errors.Is(err, ErrInvalid) {
		t.Errorf("UnmarshalText(extreme) error = %v, want ErrInvalid", err)
	}

	var r ResourceType
	if err := r.UnmarshalText([]byte("SCENE")); err != nil || r != Scene {
		t.Errorf("UnmarshalText(SCENE) = %v, %v", r, err)
	}
	if err := r.UnmarshalText([]byte("hologram")); !errors.Is(err, ErrInvalid) {
		t.Errorf("UnmarshalText(hologram) error = %v, want ErrInvalid", err)
	}
	if _, err := ResourceType(0).MarshalText(); !errors.Is(err, ErrInvalid) {
		t.Errorf("MarshalText(0) error = %v, want ErrInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Theme)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Theme) {}},
		{name: "empty name", mutate: func(th *Theme) { th.Name = "  " }, wantErr: true},
		{name: "slash in name", mutate: func(th *Theme) { th.Name = "a/b" }, wantErr: true},
		{name: "backslash in name", mutate: func(th *Theme) { th.Name = `a\b` }, wantErr: true},
		{name: "dot prefix", mutate: func(th *Theme) { th.Name = "..hidden" }, wantErr: true},
		{name: "NUL in name", mutate: func(th *Theme) { th.Name = "a\x00b" }, wantErr: true},
		{name: "unnamed subtheme", mutate: func(th *Theme) { th.SubThemes[0].Name = "" }},
		{name: "bad level", mutate: func(th *Theme) { th.SubThemes[0].Difficulties[0].Level = 9 }, wantErr: true},
		{
			name: "duplicate question id",
			mutate: func(th *Theme) {
				d := &th.SubThemes[0].Difficulties[0]
				d.AddQuestion(NewQuestion(1))
			},
		},
		{
			name:    "bad resource type",
			mutate:  func(th *Theme) { th.SubThemes[0].Difficulties[0].Questions[0].Resources[0].Type = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			th := sampleTheme()
			tt.mutate(th)
			err := th.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalid) {
					t.Errorf("Validate() error = %v, want ErrInvalid", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}
