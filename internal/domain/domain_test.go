package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_In(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	tests := []struct {
		name string
		in   Date
		loc  *time.Location
		want time.Time
		ok   bool
	}{
		{"empty", "", time.UTC, time.Time{}, false},
		{"blank", "  ", time.UTC, time.Time{}, false},
		{"date only utc", "2024-06-10", time.UTC, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), true},
		{"date only placed in location", "2024-06-10", paris, time.Date(2024, 6, 10, 0, 0, 0, 0, paris), true},
		{"rfc3339", "2024-06-15T09:30:00Z", paris, time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC), true},
		{"fractional seconds", "2024-06-15T09:30:00.123Z", time.UTC, time.Date(2024, 6, 15, 9, 30, 0, 123000000, time.UTC), true},
		{"datetime-local", "2024-06-15T14:00", time.UTC, time.Date(2024, 6, 15, 14, 0, 0, 0, time.UTC), true},
		{"garbage", "next tuesday", time.UTC, time.Time{}, false},
		{"nil location", "2024-06-10", nil, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.in.In(tt.loc)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
			}
		})
	}
}

func TestDate_DateOnly(t *testing.T) {
	assert.True(t, Date("2024-06-10").DateOnly())
	assert.False(t, Date("2024-06-10T10:00:00Z").DateOnly())
	assert.Equal(t, Date("2024-06-17"), DateOf(time.Date(2024, 6, 17, 23, 59, 0, 0, time.UTC)))
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		id   string
		kind Kind
		ok   bool
	}{
		{"lead-1718452800000", KindLead, true},
		{"app-6f1c2a9e-8d7b-4b47-9d55-7f5f3c1e2a10", KindApplication, true},
		{"interview-1", KindInterview, true},
		{"contact-1", KindContact, true},
		{"task-1", KindTask, true},
		{"offer-1", KindOffer, true},
		{"application-1", "", false},
		{"nohyphen", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			ref, ok := ParseRef(tt.id)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.kind, ref.Kind)
				assert.Equal(t, tt.id, ref.ID)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"application", "app", "applications"} {
		k, ok := ParseKind(s)
		require.True(t, ok, s)
		assert.Equal(t, KindApplication, k)
	}
	_, ok := ParseKind("company")
	assert.False(t, ok)
}

func TestContact_Applications(t *testing.T) {
	c := Contact{LinkedApplications: []string{"app-1", "", "app-2"}}
	assert.Equal(t, []Ref{
		{Kind: KindApplication, ID: "app-1"},
		{Kind: KindApplication, ID: "app-2"},
	}, c.Applications())
}

func TestOffer_TotalCompensation(t *testing.T) {
	base, bonus := 150000.0, 20000.0

	assert.Equal(t, 170000.0, Offer{Base: &base, Bonus: &bonus}.TotalCompensation())
	assert.Equal(t, 150000.0, Offer{Base: &base}.TotalCompensation())
	assert.Equal(t, 0.0, Offer{}.TotalCompensation())
}

func TestNewDocument_SerializesEmptyCollections(t *testing.T) {
	data, err := json.Marshal(NewDocument())
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"leads":[],"applications":[],"interviews":[],"contacts":[],"tasks":[],"offers":[]}`, string(data))
}

func TestLead_JSONShape(t *testing.T) {
	created := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	lead := Lead{
		Meta:        Meta{ID: "lead-1", CreatedAt: created},
		Name:        "Platform role",
		RoleTitle:   "Backend Engineer",
		CompanyName: "Acme",
		Source:      "referral",
		Status:      LeadNew,
		UpdatedAt:   created,
	}

	data, err := json.Marshal(lead)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "lead-1",
		"createdAt": "2024-06-01T08:00:00Z",
		"name": "Platform role",
		"roleTitle": "Backend Engineer",
		"companyName": "Acme",
		"source": "referral",
		"status": "new",
		"updatedAt": "2024-06-01T08:00:00Z"
	}`, string(data))
}

func TestNewValidator(t *testing.T) {
	v := NewValidator()

	t.Run("valid task", func(t *testing.T) {
		task := Task{Title: "Send thank-you note", Type: TaskThankYou, Priority: PriorityHigh, DueDate: "2024-06-15"}
		assert.NoError(t, v.Struct(task))
	})

	t.Run("bad enum and date", func(t *testing.T) {
		task := Task{Title: "x", Type: "call", Priority: PriorityLow, DueDate: "someday"}
		err := v.Struct(task)
		require.Error(t, err)
		msg := ValidationMessage(err)
		assert.Contains(t, msg, "type")
		assert.Contains(t, msg, "dueDate")
	})

	t.Run("interview round must be positive", func(t *testing.T) {
		iv := Interview{ApplicationID: "app-1", Round: 0, Type: InterviewScreen}
		err := v.Struct(iv)
		require.Error(t, err)
		assert.Contains(t, ValidationMessage(err), "round")
	})

	t.Run("free text relationship allowed", func(t *testing.T) {
		c := Contact{Name: "Sam", Relationship: "former manager"}
		assert.NoError(t, v.Struct(c))
	})
}
