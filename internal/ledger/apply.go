package ledger

import (
	"slices"

	"github.com/trustgigs/ledger/internal/domain/model"
	apperrors "github.com/trustgigs/ledger/internal/errors"
)

// apply folds one committed event into the entity tables and the stats
// accumulator. It is the single mutation path: the live operations call it
// after a durable append, and replay calls it to rebuild state from the
// store. Every validation happens before the append, so errors here indicate
// a corrupted log, not a caller mistake.
func (l *Ledger) apply(ev model.Event) error {
	payload, err := model.DecodePayload(ev)
	if err != nil {
		return err
	}

	switch p := payload.(type) {
	case model.JobCreatedPayload:
		if err := l.applyJobCreated(p, ev.Timestamp); err != nil {
			return err
		}
	case model.ApplicationSubmittedPayload:
		if err := l.applyApplicationSubmitted(p, ev.Timestamp); err != nil {
			return err
		}
	case model.WinnerSelectedPayload:
		if err := l.applyWinnerSelected(p); err != nil {
			return err
		}
	case model.JobCancelledPayload:
		if err := l.applyJobClosed(p.JobID, p.Employer, model.JobStatusCancelled); err != nil {
			return err
		}
	case model.JobExpiredPayload:
		if err := l.applyJobClosed(p.JobID, p.Employer, model.JobStatusExpired); err != nil {
			return err
		}
	case model.ApplicationWithdrawnPayload:
		if l.apps.get(p.ApplicationID) == nil {
			return apperrors.Internalf("withdrawn event for unknown application %d", p.ApplicationID)
		}
		l.apps.withdraw(p.ApplicationID)
	case model.ApplicationRejectedPayload:
		app := l.apps.get(p.ApplicationID)
		if app == nil {
			return apperrors.Internalf("rejected event for unknown application %d", p.ApplicationID)
		}
		app.Rejected = true
	case model.JobViewedPayload:
		job := l.jobs.get(p.JobID)
		if job == nil {
			return apperrors.Internalf("viewed event for unknown job %d", p.JobID)
		}
		job.ViewCount++
	default:
		return apperrors.Internalf("unhandled event kind %q", ev.Kind)
	}

	l.stats.Apply(payload)
	l.lastSeq = ev.Sequence
	return nil
}

func (l *Ledger) applyJobCreated(p model.JobCreatedPayload, createdAt uint64) error {
	if l.jobs.get(p.JobID) != nil {
		return apperrors.Internalf("created event for existing job %d", p.JobID)
	}
	if err := l.escrow.lock(p.JobID, p.Reward); err != nil {
		return err
	}
	l.jobs.insert(&model.Job{
		ID:                  p.JobID,
		Employer:            p.Employer,
		Reward:              p.Reward,
		Title:               p.Title,
		Description:         p.Description,
		Tags:                slices.Clone(p.Tags),
		Status:              model.JobStatusOpen,
		CreatedAt:           createdAt,
		ExpiresAt:           p.ExpiresAt,
		RequiredAccessLevel: p.RequiredAccessLevel,
	})
	return nil
}

func (l *Ledger) applyApplicationSubmitted(p model.ApplicationSubmittedPayload, submittedAt uint64) error {
	job := l.jobs.get(p.JobID)
	if job == nil {
		return apperrors.Internalf("application event for unknown job %d", p.JobID)
	}
	l.apps.insert(&model.Application{
		ID:          p.ApplicationID,
		JobID:       p.JobID,
		Applicant:   p.Applicant,
		Note:        p.Note,
		SubmittedAt: submittedAt,
	})
	job.ApplicationCount++
	return nil
}

func (l *Ledger) applyWinnerSelected(p model.WinnerSelectedPayload) error {
	job := l.jobs.get(p.JobID)
	app := l.apps.get(p.ApplicationID)
	if job == nil || app == nil {
		return apperrors.Internalf("winner event references unknown job %d or application %d",
			p.JobID, p.ApplicationID)
	}
	if _, err := l.escrow.release(p.JobID, p.Applicant); err != nil {
		return err
	}
	app.IsWinner = true
	winnerID := p.ApplicationID
	job.WinnerApplicationID = &winnerID
	l.jobs.setStatus(p.JobID, model.JobStatusClosed)
	return nil
}

func (l *Ledger) applyJobClosed(jobID uint64, employer string, status model.JobStatus) error {
	if l.jobs.get(jobID) == nil {
		return apperrors.Internalf("%s event for unknown job %d", status, jobID)
	}
	if _, err := l.escrow.refund(jobID, employer); err != nil {
		return err
	}
	l.jobs.setStatus(jobID, status)
	return nil
}
