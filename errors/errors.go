package errors

import "fmt"

var (
	ErrInvalidArgument     = fmt.Errorf("invalid argument")
	ErrRoomNotFound        = fmt.Errorf("room not found")
	ErrRoomExists          = fmt.Errorf("room id already in use")
	ErrParticipantNotFound = fmt.Errorf("participant not found")
	ErrBufferNotOwned      = fmt.Errorf("buffer is not owned by the caller")
	ErrBoundaryPanic       = fmt.Errorf("panic recovered at boundary")
	ErrEmptyWords          = fmt.Errorf("no words have been found")
	ErrUnknownMediaType    = fmt.Errorf("unknown media type")
)
