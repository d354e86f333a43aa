package chatservice

import "github.com/ogcamping/console/internal/common"

func validateClientID(v *common.Validator, clientID string) {
	v.Check(clientID != "", "client_id", "must be provided")
	v.Check(v.CheckStringLength(clientID, 1, 128), "client_id", "must not be more than 128 characters long")
}

func validateQuestion(v *common.Validator, question string) {
	v.Check(question != "", "question", "must be provided")
	v.Check(v.CheckStringLength(question, 1, 2000), "question", "must not be more than 2000 characters long")
}
