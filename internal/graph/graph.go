// Package graph maintains the follow relationship between users.
//
// One logical edge A->B is stored twice: B in A.following and A in
// B.subscribers. Each side is written with its own guarded atomic update.
// Without store transactions the two writes can be observed half-applied;
// RepairEdges converges such pairs, treating following as authoritative.
package graph

import (
	"context"
	"fmt"

	"github.com/anonto42/social-network/internal/activity"
	"github.com/anonto42/social-network/internal/models"
	"github.com/anonto42/social-network/internal/repositories"
	"github.com/anonto42/social-network/internal/resolver"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Engine mutates follow edges
type Engine struct {
	users    repositories.UserRepository
	resolver *resolver.Resolver
	recorder activity.Recorder
	log      *zap.Logger
}

// New creates a graph Engine. A nil recorder disables activity events.
func New(users repositories.UserRepository, res *resolver.Resolver, rec activity.Recorder, log *zap.Logger) *Engine {
	if rec == nil {
		rec = activity.Nop{}
	}
	return &Engine{users: users, resolver: res, recorder: rec, log: log.Named("graph")}
}

// EdgeChange reports which side of an edge was written
type EdgeChange struct {
	SubscribersChanged bool `json:"subscribers_changed"`
	FollowingChanged   bool `json:"following_changed"`
}

// Changed reports whether any write happened
func (c EdgeChange) Changed() bool {
	return c.SubscribersChanged || c.FollowingChanged
}

// Subscribe makes current follow target. Each side is written only when
// missing, so a repeated call performs no writes.
func (e *Engine) Subscribe(ctx context.Context, current, target *models.User) (EdgeChange, error) {
	var change EdgeChange
	err := e.users.RunInTransaction(ctx, func(ctx context.Context) error {
		change = EdgeChange{}
		cur, tgt, err := e.reload(ctx, current, target)
		if err != nil {
			return err
		}
		if !tgt.HasSubscriber(cur.ID) {
			if change.SubscribersChanged, err = e.users.AddEdge(ctx, tgt.ID, repositories.SubscribersField, cur.ID); err != nil {
				return fmt.Errorf("add subscriber: %w", err)
			}
		}
		if !cur.IsFollowing(tgt.ID) {
			if change.FollowingChanged, err = e.users.AddEdge(ctx, cur.ID, repositories.FollowingField, tgt.ID); err != nil {
				return fmt.Errorf("add following: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return EdgeChange{}, err
	}

	if change.Changed() {
		e.log.Info("subscribed",
			zap.String("user_id", current.ID.Hex()),
			zap.String("target_id", target.ID.Hex()),
			zap.Bool("subscribers_changed", change.SubscribersChanged),
			zap.Bool("following_changed", change.FollowingChanged))
		activity.Emit(ctx, e.recorder, e.log, activity.NewEvent(activity.Subscribed, current,
			target.ID.Hex(), target.ID.Hex(), activity.TargetUser))
	}
	return change, nil
}

// Unsubscribe removes the edge current->target, each side only when present
func (e *Engine) Unsubscribe(ctx context.Context, current, target *models.User) (EdgeChange, error) {
	var change EdgeChange
	err := e.users.RunInTransaction(ctx, func(ctx context.Context) error {
		change = EdgeChange{}
		cur, tgt, err := e.reload(ctx, current, target)
		if err != nil {
			return err
		}
		if tgt.HasSubscriber(cur.ID) {
			if change.SubscribersChanged, err = e.users.RemoveEdge(ctx, tgt.ID, repositories.SubscribersField, cur.ID); err != nil {
				return fmt.Errorf("remove subscriber: %w", err)
			}
		}
		if cur.IsFollowing(tgt.ID) {
			if change.FollowingChanged, err = e.users.RemoveEdge(ctx, cur.ID, repositories.FollowingField, tgt.ID); err != nil {
				return fmt.Errorf("remove following: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return EdgeChange{}, err
	}

	if change.Changed() {
		e.log.Info("unsubscribed",
			zap.String("user_id", current.ID.Hex()),
			zap.String("target_id", target.ID.Hex()),
			zap.Bool("subscribers_changed", change.SubscribersChanged),
			zap.Bool("following_changed", change.FollowingChanged))
		activity.Emit(ctx, e.recorder, e.log, activity.NewEvent(activity.Unsubscribed, current,
			target.ID.Hex(), target.ID.Hex(), activity.TargetUser))
	}
	return change, nil
}

// reload reads the current edge state of both users from the store;
// the caller's copies may be stale.
func (e *Engine) reload(ctx context.Context, current, target *models.User) (*models.User, *models.User, error) {
	cur, err := e.resolver.FindUserByObjectID(ctx, current.ID)
	if err != nil {
		return nil, nil, err
	}
	tgt, err := e.resolver.FindUserByObjectID(ctx, target.ID)
	if err != nil {
		return nil, nil, err
	}
	return cur, tgt, nil
}

// Following returns the ids the user currently follows
func (e *Engine) Following(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	u, err := e.resolver.FindUserByObjectID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.Following, nil
}

// RepairReport summarizes a RepairEdges pass
type RepairReport struct {
	UsersScanned       int `json:"users_scanned"`
	SubscribersAdded   int `json:"subscribers_added"`
	SubscribersRemoved int `json:"subscribers_removed"`
	DanglingFollowing  int `json:"dangling_following"`
}

// RepairEdges rewrites every subscribers set to mirror the following sets.
// Following entries that point at a missing user are counted, not removed.
// Run it while subscribe traffic is quiet: an edge half-written by a
// concurrent Subscribe may be rolled back and has to be retried.
func (e *Engine) RepairEdges(ctx context.Context) (RepairReport, error) {
	users, err := e.users.ListUsers(ctx)
	if err != nil {
		return RepairReport{}, err
	}
	report := RepairReport{UsersScanned: len(users)}

	known := make(map[primitive.ObjectID]bool, len(users))
	for _, u := range users {
		known[u.ID] = true
	}
	expected := make(map[primitive.ObjectID][]primitive.ObjectID, len(users))
	for _, a := range users {
		for _, b := range a.Following {
			if !known[b] {
				report.DanglingFollowing++
				continue
			}
			if !models.ContainsID(expected[b], a.ID) {
				expected[b] = append(expected[b], a.ID)
			}
		}
	}

	for i := range users {
		b := &users[i]
		for _, a := range expected[b.ID] {
			if b.HasSubscriber(a) {
				continue
			}
			added, err := e.users.AddEdge(ctx, b.ID, repositories.SubscribersField, a)
			if err != nil {
				return report, fmt.Errorf("repair %s: %w", b.ID.Hex(), err)
			}
			if added {
				report.SubscribersAdded++
			}
		}
		for _, a := range b.Subscribers {
			if models.ContainsID(expected[b.ID], a) {
				continue
			}
			removed, err := e.users.RemoveEdge(ctx, b.ID, repositories.SubscribersField, a)
			if err != nil {
				return report, fmt.Errorf("repair %s: %w", b.ID.Hex(), err)
			}
			if removed {
				report.SubscribersRemoved++
			}
		}
	}

	e.log.Info("edge repair finished",
		zap.Int("users_scanned", report.UsersScanned),
		zap.Int("subscribers_added", report.SubscribersAdded),
		zap.Int("subscribers_removed", report.SubscribersRemoved),
		zap.Int("dangling_following", report.DanglingFollowing))
	return report, nil
}
