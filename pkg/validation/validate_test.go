package validation

import (
	"strings"
	"testing"

	"pirsvc/pkg/models"
)

func key(id string, size int) models.EvaluationKey {
	return models.EvaluationKey{
		Metadata:      models.EvaluationKeyMetadata{Identifier: []byte(id)},
		EvaluationKey: make([]byte, size),
	}
}

func TestMergeFillsDefaults(t *testing.T) {
	got := Limits{MaxKeyBytes: 1}.Merge()
	if got.MaxKeyBytes != 1 {
		t.Fatalf("explicit value overwritten: %+v", got)
	}
	if got.MaxKeysPerUpload != DefaultLimits.MaxKeysPerUpload ||
		got.MaxUsecasesPerRequest != DefaultLimits.MaxUsecasesPerRequest {
		t.Fatalf("defaults not applied: %+v", got)
	}
}

func TestValidateUpload(t *testing.T) {
	l := Limits{MaxKeysPerUpload: 2, MaxKeyBytes: 10}

	if err := l.ValidateUpload(models.EvaluationKeys{}); err == nil {
		t.Fatalf("empty batch accepted")
	}
	ok := models.EvaluationKeys{Keys: []models.EvaluationKey{key("a", 4)}}
	if err := l.ValidateUpload(ok); err != nil {
		t.Fatalf("valid batch rejected: %v", err)
	}
	big := models.EvaluationKeys{Keys: []models.EvaluationKey{key("a", 4), key("b", 4), key("c", 4)}}
	if err := l.ValidateUpload(big); err == nil {
		t.Fatalf("oversized batch accepted")
	}
	fat := models.EvaluationKeys{Keys: []models.EvaluationKey{key("a", 11)}}
	if err := l.ValidateUpload(fat); err == nil {
		t.Fatalf("oversized key accepted")
	}
	noID := models.EvaluationKeys{Keys: []models.EvaluationKey{key("", 4)}}
	if err := l.ValidateUpload(noID); err == nil {
		t.Fatalf("key without config identifier accepted")
	}
	empty := models.EvaluationKeys{Keys: []models.EvaluationKey{key("a", 0)}}
	if err := l.ValidateUpload(empty); err == nil {
		t.Fatalf("key without material accepted")
	}
}

func TestValidateConfigRequest(t *testing.T) {
	l := Limits{MaxUsecasesPerRequest: 2}
	if err := l.ValidateConfigRequest(models.ConfigRequest{Usecases: []string{"a", "b"}}); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
	if err := l.ValidateConfigRequest(models.ConfigRequest{Usecases: []string{"a", "b", "c"}}); err == nil {
		t.Fatalf("oversized request accepted")
	}
	if err := l.ValidateConfigRequest(models.ConfigRequest{Usecases: []string{""}}); err == nil {
		t.Fatalf("empty usecase name accepted")
	}
}

func TestValidateUsecaseName(t *testing.T) {
	if err := ValidateUsecaseName("hundred"); err != nil {
		t.Fatalf("plain name rejected: %v", err)
	}
	for _, bad := range []string{"", "  ", "a\nb", "a\x00b", strings.Repeat(" ", 3)} {
		if err := ValidateUsecaseName(bad); err == nil {
			t.Fatalf("name %q accepted", bad)
		}
	}
}
