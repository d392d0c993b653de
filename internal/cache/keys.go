package cache

import "fmt"

// Ключи зеркала присутствия:
// - roomKey:   Set<participantID> — кандидаты комнаты
// - memberKey: String "1" с TTL — heartbeat-ключ участника
// - namesKey:  Hash participantID -> display name
const (
	keyRoomFmt   = "presence:room:%s"
	keyMemberFmt = "presence:member:%s:%s"
	keyNamesFmt  = "presence:names:%s"
)

func roomKey(roomID string) string { return fmt.Sprintf(keyRoomFmt, roomID) }

func memberKey(roomID, participantID string) string {
	return fmt.Sprintf(keyMemberFmt, roomID, participantID)
}

func namesKey(roomID string) string { return fmt.Sprintf(keyNamesFmt, roomID) }
