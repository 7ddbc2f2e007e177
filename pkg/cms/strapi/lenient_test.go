package strapi

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestTextAcceptsAnyScalar(t *testing.T) {
	cases := map[string]text{
		`"hello"`:   "hello",
		`20240101`:  "20240101",
		`true`:      "true",
		`null`:      "",
		`{"a":1}`:   "",
		`["x","y"]`: "",
	}
	for in, want := range cases {
		var got text
		if err := json.Unmarshal([]byte(in), &got); err != nil || got != want {
			t.Errorf("%s: got %q err=%v, want %q", in, got, err, want)
		}
	}
}

func TestNumberAcceptsNumericStrings(t *testing.T) {
	cases := map[string]number{
		`7`:       7,
		`"12"`:    12,
		`" 3 "`:   3,
		`4.9`:     4,
		`"seven"`: 0,
		`null`:    0,
		`[1]`:     0,
		`1e300`:   0,
	}
	for in, want := range cases {
		var got number
		if err := json.Unmarshal([]byte(in), &got); err != nil || got != want {
			t.Errorf("%s: got %d err=%v, want %d", in, got, err, want)
		}
	}
}

func TestEntityFallsBackPerField(t *testing.T) {
	var e entity[authorAttributes]
	err := json.Unmarshal([]byte(`{"id":"5","attributes":{
		"name":"Ada","role":["not","a","string"],
		"avatar":"oops",
		"github_url":42
	}}`), &e)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.ID != 5 || e.Attributes.Name != "Ada" || e.Attributes.Role != "" || e.Attributes.GithubURL != "42" {
		t.Fatalf("unexpected entity %+v", e)
	}
	if e.Attributes.Avatar.Data != nil {
		t.Fatalf("malformed avatar should be absent, got %+v", e.Attributes.Avatar.Data)
	}
}

func TestEntityWithNonObjectAttributesIsZero(t *testing.T) {
	var e entity[tagAttributes]
	if err := json.Unmarshal([]byte(`{"id":2,"attributes":"go"}`), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.ID != 2 || e.Attributes.Name != "" {
		t.Fatalf("unexpected entity %+v", e)
	}
}

func TestRelationListAcceptsLoneObjectAndSkipsJunk(t *testing.T) {
	var single relationList[tagAttributes]
	if err := json.Unmarshal([]byte(`{"data":{"id":3,"attributes":{"name":"go"}}}`), &single); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(single.Data) != 1 || single.Data[0].ID != 3 || single.Data[0].Attributes.Name != "go" {
		t.Fatalf("unexpected list %+v", single.Data)
	}

	var mixed relationList[tagAttributes]
	if err := json.Unmarshal([]byte(`{"data":[1,{"id":4,"attributes":{"name":"rust"}},"x"]}`), &mixed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(mixed.Data) != 1 || mixed.Data[0].ID != 4 {
		t.Fatalf("unexpected list %+v", mixed.Data)
	}
}

func TestMediaFormatsDropBadEntries(t *testing.T) {
	var m mediaAttributes
	err := json.Unmarshal([]byte(`{"url":"/a.png","formats":{"small":{"url":"/s.png","width":"64"},"large":"nope"}}`), &m)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.Formats[formatSmall].URL != "/s.png" || m.Formats[formatSmall].Width != 64 {
		t.Fatalf("small format = %+v", m.Formats[formatSmall])
	}
	if _, ok := m.Formats[formatLarge]; ok {
		t.Fatal("malformed format should be dropped")
	}
}
