package room

// GetRoomInput contains parameters for retrieving a room
type GetRoomInput struct {
	RoomID string
}
