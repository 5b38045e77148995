package feed

import (
	"reflect"
	"testing"
)

func TestSuggestTags(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		excerpt string
		want    []string
	}{
		{
			name:    "english databases",
			title:   "Scaling PostgreSQL to 10TB",
			excerpt: "Sharding and replication strategies",
			want:    []string{"databases", "distributed"},
		},
		{
			name:    "spanish security",
			title:   "Seguridad en APIs",
			excerpt: "Autenticación con OAuth y cifrado TLS",
			want:    []string{"security"},
		},
		{
			name:    "title weighs double",
			title:   "Kubernetes operators",
			excerpt: "a small redis cache",
			want:    []string{"infra", "databases"},
		},
		{
			name:    "no match",
			title:   "Notas de la semana",
			excerpt: "",
			want:    []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestTags(tt.title, tt.excerpt)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SuggestTags(%q, %q) = %v, want %v", tt.title, tt.excerpt, got, tt.want)
			}
		})
	}
}

func TestToInputSuggestsTagsWithoutCategories(t *testing.T) {
	in := ToInput(Item{Link: "https://x.com/p/k8s", Title: "Kubernetes en producción"}, "es")
	if !reflect.DeepEqual(in.Tags, []string{"infra"}) {
		t.Errorf("tags = %v, want [infra]", in.Tags)
	}

	in = ToInput(Item{Link: "https://x.com/p/k8s", Title: "Kubernetes", Tags: []string{"ops"}}, "es")
	if !reflect.DeepEqual(in.Tags, []string{"ops"}) {
		t.Errorf("tags = %v, want categories kept", in.Tags)
	}
}
