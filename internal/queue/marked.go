package queue

import (
	"encoding/json"

	"github.com/google/uuid"
)

// TypeAttendanceMarked is published after each successful attendance mark.
const TypeAttendanceMarked = "attendance.marked"

// MarkedPayload is the body of an attendance.marked message.
type MarkedPayload struct {
	LectureID int64 `json:"lecture_id"`
}

// MarkedMessage builds an attendance.marked message for the lecture.
func MarkedMessage(lectureID int64) (Message, error) {
	body, err := json.Marshal(MarkedPayload{LectureID: lectureID})
	if err != nil {
		return Message{}, err
	}
	return Message{ID: uuid.NewString(), Type: TypeAttendanceMarked, Body: body}, nil
}

// DecodeMarked parses an attendance.marked body.
func DecodeMarked(msg Message) (MarkedPayload, error) {
	var p MarkedPayload
	err := json.Unmarshal(msg.Body, &p)
	return p, err
}
