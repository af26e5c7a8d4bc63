package audit

import (
	"strings"
	"testing"
)

func TestListCastsActorBeforeCoalesce(t *testing.T) {
	if !strings.Contains(listEventsSQL, "COALESCE(actor_user_id::text, '')") {
		t.Fatalf("actor_user_id must be cast to text inside COALESCE:\n%s", listEventsSQL)
	}
	if strings.Contains(listEventsSQL, "COALESCE(actor_user_id,") {
		t.Fatalf("uncast uuid COALESCE would fail the list query:\n%s", listEventsSQL)
	}
}

func TestRecordStoresEmptyActorAsNull(t *testing.T) {
	if !strings.Contains(insertEventSQL, "NULLIF($1, '')::uuid") {
		t.Fatalf("empty actor ids must insert as NULL, not '':\n%s", insertEventSQL)
	}
}
