package service

import (
	"context"
	"time"

	"github.com/tritonir/nondan-backend/internal/model"
	"github.com/tritonir/nondan-backend/internal/pkg"
	"github.com/tritonir/nondan-backend/internal/repository/mysql"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Sender func(ctx context.Context, ob *model.ActivityOutbox) error

// OutboxRelayer 周期性把 activity_outbox 里的待投递事件交给 sender
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewOutboxRelayer(db *gorm.DB, sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: db},
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.DrainOnce(ctx)
		}
	}
}

func (r *OutboxRelayer) DrainOnce(ctx context.Context) {
	rows, err := r.repo.ListPending(ctx, r.batchSize)
	if err != nil {
		logrus.WithError(err).Warn("outbox query failed")
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			_ = r.repo.MarkFailed(ctx, ob.ID)
			continue
		}
		_ = r.repo.MarkSent(ctx, ob.ID)
	}
}

// KafkaSender 投递到 kafka，key 用社团 id 保证同社团事件有序
func KafkaSender(p *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.ActivityOutbox) error {
		return p.Send(ctx, pkg.ActivityKey(ob.ClubID), []byte(ob.Payload))
	}
}

// LogSender 没配 kafka 时的兜底 sender
func LogSender(ctx context.Context, ob *model.ActivityOutbox) error {
	logrus.WithFields(logrus.Fields{
		"type":    ob.EventType,
		"club_id": ob.ClubID,
		"actor":   ob.ActorID,
	}).Info("outbox send")
	return nil
}

// ClubStatsReconciler 定时对账：冗余计数和真实行数比对修正，
// 悬空活动（所属社团已删）发现即清理。发现的每一处偏差都按
// ConsistencyError 记日志，双写残留不允许静默存在
type ClubStatsReconciler struct {
	repo      *mysql.ClubStatsRepo
	batchSize int
	interval  time.Duration
}

func NewClubStatsReconciler(db *gorm.DB) *ClubStatsReconciler {
	return &ClubStatsReconciler{
		repo:      &mysql.ClubStatsRepo{DB: db},
		batchSize: 500,
		interval:  5 * time.Minute,
	}
}

func (r *ClubStatsReconciler) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.ReconcileOnce(ctx)
		}
	}
}

func (r *ClubStatsReconciler) ReconcileOnce(ctx context.Context) {
	var lastID uint64
	for {
		clubs, next, err := r.repo.ListCounts(ctx, r.batchSize, lastID)
		if err != nil {
			logrus.WithError(err).Warn("reconcile list failed")
			return
		}
		if len(clubs) == 0 {
			break
		}
		for _, c := range clubs {
			r.reconcileClub(ctx, c)
		}
		lastID = next
	}

	r.dropOrphans(ctx)
}

func (r *ClubStatsReconciler) reconcileClub(ctx context.Context, c mysql.ClubCounts) {
	realMembers, err := r.repo.RealMembers(ctx, c.ID)
	if err != nil {
		return
	}
	realEvents, err := r.repo.RealEvents(ctx, c.ID)
	if err != nil {
		return
	}
	if realMembers != c.MembersCount {
		cerr := &pkg.ConsistencyError{Kind: "club.members_count", Detail: "count drift detected"}
		logrus.WithFields(logrus.Fields{
			"club_id": c.ID, "stored": c.MembersCount, "real": realMembers,
		}).Error(cerr.Error())
		_ = r.repo.FixMembers(ctx, c.ID, realMembers)
	}
	if realEvents != c.EventsCount {
		cerr := &pkg.ConsistencyError{Kind: "club.events_count", Detail: "count drift detected"}
		logrus.WithFields(logrus.Fields{
			"club_id": c.ID, "stored": c.EventsCount, "real": realEvents,
		}).Error(cerr.Error())
		_ = r.repo.FixEvents(ctx, c.ID, realEvents)
	}
}

func (r *ClubStatsReconciler) dropOrphans(ctx context.Context) {
	orphans, err := r.repo.ListOrphanEvents(ctx, r.batchSize)
	if err != nil {
		logrus.WithError(err).Warn("orphan scan failed")
		return
	}
	for _, ev := range orphans {
		cerr := &pkg.ConsistencyError{Kind: "event.club_id", Detail: "dangling club reference"}
		logrus.WithFields(logrus.Fields{
			"event_id": ev.ID, "club_id": ev.ClubID,
		}).Error(cerr.Error())
		_ = r.repo.DropOrphanEvent(ctx, ev.ID)
	}
}
