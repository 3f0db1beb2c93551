package quizzes

import (
	"fmt"

	"quizservice/src/core/errs"
	"quizservice/src/core/models"
)

// Event is a lifecycle transition request on a quiz.
type Event string

const (
	EventPublish    Event = "publish"
	EventUnpublish  Event = "unpublish"
	EventArchive    Event = "archive"
	EventUnarchive  Event = "unarchive"
	EventSoftDelete Event = "delete"
	EventRestore    Event = "restore"
)

// transitions declares the legality of every lifecycle transition in one
// place: state x event -> next state. An absent entry is an illegal
// transition. Hard deletion is not an FSM event; it physically removes the
// quiz and is guarded separately.
var transitions = map[models.QuizStatus]map[Event]models.QuizStatus{
	models.QuizDrafted: {
		EventPublish:    models.QuizPublished,
		EventArchive:    models.QuizArchived,
		EventSoftDelete: models.QuizDeleted,
	},
	models.QuizPublished: {
		EventUnpublish:  models.QuizDrafted,
		EventArchive:    models.QuizArchived,
		EventSoftDelete: models.QuizDeleted,
	},
	models.QuizArchived: {
		EventUnarchive:  models.QuizDrafted,
		EventSoftDelete: models.QuizDeleted,
	},
	models.QuizDeleted: {
		EventRestore: models.QuizDrafted,
	},
}

// nextStatus resolves a lifecycle event against the transition table,
// returning InvalidStatusError for an illegal transition.
func nextStatus(current models.QuizStatus, event Event) (models.QuizStatus, error) {
	if next, ok := transitions[current][event]; ok {
		return next, nil
	}
	return "", errs.NewInvalidStatus(fmt.Sprintf(
		"This quiz is %s and cannot be %s.", current, eventPastTense(event)))
}

func eventPastTense(event Event) string {
	switch event {
	case EventPublish:
		return "published"
	case EventUnpublish:
		return "unpublished"
	case EventArchive:
		return "archived"
	case EventUnarchive:
		return "unarchived"
	case EventSoftDelete:
		return "deleted"
	case EventRestore:
		return "restored"
	}
	return string(event)
}
