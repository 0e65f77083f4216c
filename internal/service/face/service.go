package face

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/face"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/utils"
)

type FaceServiceImpl struct {
	matcher *Matcher
	roster  *RosterCache
}

func NewFaceService(matcher *Matcher, roster *RosterCache) face.Service {
	return &FaceServiceImpl{matcher: matcher, roster: roster}
}

// CurrentRoster implements face.Service. Without a snapshot it loads one; if
// that fails the roster is unavailable until a later refresh succeeds.
func (s *FaceServiceImpl) CurrentRoster(ctx context.Context) (*face.Roster, error) {
	if r := s.roster.Current(); r != nil {
		return r, nil
	}
	r, err := s.roster.Refresh(ctx)
	if err != nil {
		slog.Error("Face roster load failed", "error", err)
		return nil, fmt.Errorf("%w: %v", face.ErrRosterUnavailable, err)
	}
	return r, nil
}

// Identify implements face.Service.
func (s *FaceServiceImpl) Identify(ctx context.Context, req face.IdentifyRequest) (face.IdentifyResponse, error) {
	if err := req.Validate(); err != nil {
		return face.IdentifyResponse{}, err
	}

	roster, err := s.CurrentRoster(ctx)
	if err != nil {
		return face.IdentifyResponse{}, err
	}

	match, ok, err := s.matcher.Match(req.FaceDescriptor, roster)
	if err != nil {
		return face.IdentifyResponse{}, err
	}
	if !ok {
		return face.IdentifyResponse{Matched: false, RosterVersion: roster.Version}, nil
	}

	distance := match.Distance
	return face.IdentifyResponse{
		Matched:       true,
		EmployeeID:    match.EmployeeID,
		Name:          match.Name,
		Distance:      &distance,
		RosterVersion: match.RosterVersion,
	}, nil
}

// Resolve implements face.Service.
func (s *FaceServiceImpl) Resolve(ctx context.Context, probe face.Embedding) (face.Match, error) {
	roster, err := s.CurrentRoster(ctx)
	if err != nil {
		return face.Match{}, err
	}

	match, ok, err := s.matcher.Match(probe, roster)
	if err != nil {
		return face.Match{}, err
	}
	if !ok {
		return face.Match{}, face.ErrNoMatch
	}
	return match, nil
}

// RefreshRoster implements face.Service.
func (s *FaceServiceImpl) RefreshRoster(ctx context.Context) (face.RosterResponse, error) {
	roster, err := s.roster.Refresh(ctx)
	if err != nil {
		return face.RosterResponse{}, err
	}
	return face.RosterResponse{
		Version: roster.Version,
		Entries: len(roster.Entries),
		TakenAt: utils.FormatTimestamp(roster.TakenAt),
	}, nil
}
