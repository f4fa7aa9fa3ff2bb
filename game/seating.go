package game

// findAvailableSeatNumber picks the next seat for a joining player:
// the lowest seat number in [1, playersPerTable] not already assigned.
// The second return is false when every seat is taken. A rejoining
// player lands at the lowest freed seat.
func findAvailableSeatNumber(assignedSeats []uint32, playersPerTable uint32) (uint32, bool) {
	taken := make(map[uint32]bool, len(assignedSeats))
	for _, seatNo := range assignedSeats {
		taken[seatNo] = true
	}
	for seatNo := uint32(1); seatNo <= playersPerTable; seatNo++ {
		if !taken[seatNo] {
			return seatNo, true
		}
	}
	return 0, false
}
