package discovery

import (
	"encoding/json"
	"fmt"
)

// Server etcd 中保存的节点信息, key 为 name/version/addr
type Server struct {
	Name    string  `json:"name"`
	Addr    string  `json:"addr"`
	Weight  int     `json:"weight"`
	Version string  `json:"version"`
	Ttl     int     `json:"ttl"`
	NodeID  string  `json:"nodeID"`
	Load    float64 `json:"load"`
}

func (s Server) buildKey() string {
	if s.Version == "" {
		return fmt.Sprintf("%s/%s", s.Name, s.Addr)
	}
	return fmt.Sprintf("%s/%s/%s", s.Name, s.Version, s.Addr)
}

func ParseValue(v []byte) (Server, error) {
	var server Server
	if err := json.Unmarshal(v, &server); err != nil {
		return server, err
	}
	return server, nil
}
