package api

import (
	"time"

	"github.com/vytor/lexiflash/internal/exercise"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type startSessionRequest struct {
	Kind       string `json:"kind" validate:"required,oneof=new-collection review-collection new-topic review-topic"`
	ID         string `json:"id" validate:"required"`
	NumOfWords int    `json:"numOfWords" validate:"gte=0,lte=100"`
}

type cardAnswerRequest struct {
	Known       *bool `json:"known" validate:"required"`
	AlreadyKnow bool  `json:"alreadyKnow"`
}

type exerciseAnswerRequest struct {
	Text      string `json:"text" validate:"max=200"`
	Truth     *bool  `json:"truth"`
	ElapsedMs int64  `json:"elapsedMs" validate:"gte=0"`
}

func (r exerciseAnswerRequest) answer() exercise.Answer {
	return exercise.Answer{
		Text:    r.Text,
		Truth:   r.Truth,
		Elapsed: time.Duration(r.ElapsedMs) * time.Millisecond,
	}
}
