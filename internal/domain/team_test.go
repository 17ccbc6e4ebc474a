package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestTeamValidate(t *testing.T) {
	validTeam := Team{
		ID:         uuid.New(),
		Name:       "Platform",
		Department: "Engineering",
	}

	if err := validTeam.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	invalidTeam := validTeam
	invalidTeam.ID = uuid.Nil
	if err := invalidTeam.Validate(); err != ErrEmptyTeamID {
		t.Errorf("Expected error %v, got %v", ErrEmptyTeamID, err)
	}
}

func TestTeamMemberSummaryValidate(t *testing.T) {
	validSummary := TeamMemberSummary{
		TeamID:           uuid.New(),
		UserID:           uuid.New(),
		Role:             "member",
		PerformanceScore: 87.5,
	}

	if err := validSummary.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	invalidSummary := validSummary
	invalidSummary.TeamID = uuid.Nil
	if err := invalidSummary.Validate(); err != ErrEmptyTeamID {
		t.Errorf("Expected error %v, got %v", ErrEmptyTeamID, err)
	}

	invalidSummary = validSummary
	invalidSummary.UserID = uuid.Nil
	if err := invalidSummary.Validate(); err != ErrEmptyMemberUserID {
		t.Errorf("Expected error %v, got %v", ErrEmptyMemberUserID, err)
	}
}
