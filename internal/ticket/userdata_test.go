package ticket

import (
	"testing"
)

func TestFlatten(t *testing.T) {
	raw, err := DecodeUserData([]byte(`{
		" 姓名 ": "  张三 ",
		"票号": {"value": "A123", "enabled": true},
		"席位号": {"value": "05A", "enabled": false},
		"车次号": {"value": "G1"},
		"年": 2024,
		"价格": 12.50,
		"备注": null,
		"学生": true,
		"空": {"enabled": true}
	}`))
	if err != nil {
		t.Fatalf("DecodeUserData() error: %v", err)
	}
	got := Flatten(raw)

	want := UserData{
		"姓名": "张三",
		"票号": "A123",
		"车次号": "G1",
		"年":  "2024",
		"价格": "12.50",
		"备注": "",
		"学生": "True",
		"空":  "",
	}
	if len(got) != len(want) {
		t.Errorf("Flatten() = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("Flatten()[%q] = %q, want %q", k, got[k], v)
		}
	}
	if _, ok := got["席位号"]; ok {
		t.Error("disabled field should be dropped")
	}
}

func TestUserDataLookup(t *testing.T) {
	u := UserData{"a": "1", "empty": ""}

	if v, ok := u.Lookup("a"); !ok || v != "1" {
		t.Errorf("Lookup(a) = %q, %v", v, ok)
	}
	if v, ok := u.Lookup("empty"); !ok || v != "" {
		t.Errorf("Lookup(empty) = %q, %v; present keys must report ok", v, ok)
	}
	if _, ok := u.Lookup("missing"); ok {
		t.Error("Lookup(missing) should report !ok")
	}
	if got := u.Get("missing"); got != "" {
		t.Errorf("Get(missing) = %q, want empty", got)
	}
}

func TestHasContent(t *testing.T) {
	if (UserData{"a": "", "b": ""}).HasContent() {
		t.Error("all-empty data has no content")
	}
	if !(UserData{"a": "", "b": "x"}).HasContent() {
		t.Error("data with a value has content")
	}
}

func TestDecodeUserDataRejectsNonObject(t *testing.T) {
	if _, err := DecodeUserData([]byte(`["a"]`)); err == nil {
		t.Error("expected an error for a JSON array")
	}
}

func TestFlattenKeyCollisions(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want string
	}{
		{"exact key beats padded key", map[string]any{"姓名": "Alice", " 姓名 ": "Bob"}, "Alice"},
		{"exact key beats several padded keys", map[string]any{" 姓名": "Bob", "姓名": "Alice", "姓名 ": "Carol"}, "Alice"},
		{"padded keys resolve in sorted order", map[string]any{" 姓名": "Bob", "姓名 ": "Carol"}, "Bob"},
		{"disabled exact key leaves padded key", map[string]any{
			"姓名":   map[string]any{"value": "Alice", "enabled": false},
			" 姓名 ": "Bob",
		}, "Bob"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 200; i++ {
				got := Flatten(tt.raw)
				if v := got.Get("姓名"); v != tt.want {
					t.Fatalf("iteration %d: Flatten()[姓名] = %q, want %q", i, v, tt.want)
				}
				if len(got) != 1 {
					t.Fatalf("iteration %d: Flatten() = %v, want one key", i, got)
				}
			}
		})
	}
}
