package abi

import "fmt"

// Optionは、レベルとオプション番号の組です。
type Option struct {
	Level int
	Name  int
}

func (o Option) String() string {
	return OptionName(o.Level, o.Name)
}

var levelNames = map[int]string{
	SOL_IP:     "SOL_IP",
	SOL_SOCKET: "SOL_SOCKET",
	SOL_TCP:    "SOL_TCP",
	SOL_IPV6:   "SOL_IPV6",
	SOL_MPTCP:  "SOL_MPTCP",
}

var optionsByName = map[string]Option{
	"SO_DEBUG":                 {SOL_SOCKET, SO_DEBUG},
	"SO_REUSEADDR":             {SOL_SOCKET, SO_REUSEADDR},
	"SO_DONTROUTE":             {SOL_SOCKET, SO_DONTROUTE},
	"SO_BROADCAST":             {SOL_SOCKET, SO_BROADCAST},
	"SO_SNDBUF":                {SOL_SOCKET, SO_SNDBUF},
	"SO_RCVBUF":                {SOL_SOCKET, SO_RCVBUF},
	"SO_KEEPALIVE":             {SOL_SOCKET, SO_KEEPALIVE},
	"SO_OOBINLINE":             {SOL_SOCKET, SO_OOBINLINE},
	"SO_NO_CHECK":              {SOL_SOCKET, SO_NO_CHECK},
	"SO_PRIORITY":              {SOL_SOCKET, SO_PRIORITY},
	"SO_LINGER":                {SOL_SOCKET, SO_LINGER},
	"SO_BSDCOMPAT":             {SOL_SOCKET, SO_BSDCOMPAT},
	"SO_REUSEPORT":             {SOL_SOCKET, SO_REUSEPORT},
	"SO_PASSCRED":              {SOL_SOCKET, SO_PASSCRED},
	"SO_RCVLOWAT":              {SOL_SOCKET, SO_RCVLOWAT},
	"SO_RCVTIMEO_OLD":          {SOL_SOCKET, SO_RCVTIMEO_OLD},
	"SO_SNDTIMEO_OLD":          {SOL_SOCKET, SO_SNDTIMEO_OLD},
	"SO_BINDTODEVICE":          {SOL_SOCKET, SO_BINDTODEVICE},
	"SO_ATTACH_FILTER":         {SOL_SOCKET, SO_ATTACH_FILTER},
	"SO_DETACH_FILTER":         {SOL_SOCKET, SO_DETACH_FILTER},
	"SO_TIMESTAMP_OLD":         {SOL_SOCKET, SO_TIMESTAMP_OLD},
	"SO_SNDBUFFORCE":           {SOL_SOCKET, SO_SNDBUFFORCE},
	"SO_RCVBUFFORCE":           {SOL_SOCKET, SO_RCVBUFFORCE},
	"SO_PASSSEC":               {SOL_SOCKET, SO_PASSSEC},
	"SO_TIMESTAMPNS_OLD":       {SOL_SOCKET, SO_TIMESTAMPNS_OLD},
	"SO_MARK":                  {SOL_SOCKET, SO_MARK},
	"SO_TIMESTAMPING_OLD":      {SOL_SOCKET, SO_TIMESTAMPING_OLD},
	"SO_RXQ_OVFL":              {SOL_SOCKET, SO_RXQ_OVFL},
	"SO_WIFI_STATUS":           {SOL_SOCKET, SO_WIFI_STATUS},
	"SO_PEEK_OFF":              {SOL_SOCKET, SO_PEEK_OFF},
	"SO_NOFCS":                 {SOL_SOCKET, SO_NOFCS},
	"SO_LOCK_FILTER":           {SOL_SOCKET, SO_LOCK_FILTER},
	"SO_SELECT_ERR_QUEUE":      {SOL_SOCKET, SO_SELECT_ERR_QUEUE},
	"SO_BUSY_POLL":             {SOL_SOCKET, SO_BUSY_POLL},
	"SO_MAX_PACING_RATE":       {SOL_SOCKET, SO_MAX_PACING_RATE},
	"SO_INCOMING_CPU":          {SOL_SOCKET, SO_INCOMING_CPU},
	"SO_ATTACH_BPF":            {SOL_SOCKET, SO_ATTACH_BPF},
	"SO_ATTACH_REUSEPORT_CBPF": {SOL_SOCKET, SO_ATTACH_REUSEPORT_CBPF},
	"SO_ATTACH_REUSEPORT_EBPF": {SOL_SOCKET, SO_ATTACH_REUSEPORT_EBPF},
	"SO_CNX_ADVICE":            {SOL_SOCKET, SO_CNX_ADVICE},
	"SO_ZEROCOPY":              {SOL_SOCKET, SO_ZEROCOPY},
	"SO_TXTIME":                {SOL_SOCKET, SO_TXTIME},
	"SO_BINDTOIFINDEX":         {SOL_SOCKET, SO_BINDTOIFINDEX},
	"SO_TIMESTAMP_NEW":         {SOL_SOCKET, SO_TIMESTAMP_NEW},
	"SO_TIMESTAMPNS_NEW":       {SOL_SOCKET, SO_TIMESTAMPNS_NEW},
	"SO_TIMESTAMPING_NEW":      {SOL_SOCKET, SO_TIMESTAMPING_NEW},
	"SO_RCVTIMEO_NEW":          {SOL_SOCKET, SO_RCVTIMEO_NEW},
	"SO_SNDTIMEO_NEW":          {SOL_SOCKET, SO_SNDTIMEO_NEW},
	"SO_DETACH_REUSEPORT_BPF":  {SOL_SOCKET, SO_DETACH_REUSEPORT_BPF},
	"SO_PREFER_BUSY_POLL":      {SOL_SOCKET, SO_PREFER_BUSY_POLL},
	"SO_BUSY_POLL_BUDGET":      {SOL_SOCKET, SO_BUSY_POLL_BUDGET},
	"SO_PASSPIDFD":             {SOL_SOCKET, SO_PASSPIDFD},
	"IP_TOS":                   {SOL_IP, IP_TOS},
	"IP_TTL":                   {SOL_IP, IP_TTL},
	"IP_HDRINCL":               {SOL_IP, IP_HDRINCL},
	"IP_OPTIONS":               {SOL_IP, IP_OPTIONS},
	"IP_RECVOPTS":              {SOL_IP, IP_RECVOPTS},
	"IP_RETOPTS":               {SOL_IP, IP_RETOPTS},
	"IP_PKTINFO":               {SOL_IP, IP_PKTINFO},
	"IP_MTU_DISCOVER":          {SOL_IP, IP_MTU_DISCOVER},
	"IP_RECVERR":               {SOL_IP, IP_RECVERR},
	"IP_RECVTTL":               {SOL_IP, IP_RECVTTL},
	"IP_RECVTOS":               {SOL_IP, IP_RECVTOS},
	"IP_FREEBIND":              {SOL_IP, IP_FREEBIND},
	"IP_PASSSEC":               {SOL_IP, IP_PASSSEC},
	"IP_TRANSPARENT":           {SOL_IP, IP_TRANSPARENT},
	"IP_RECVORIGDSTADDR":       {SOL_IP, IP_RECVORIGDSTADDR},
	"IP_MINTTL":                {SOL_IP, IP_MINTTL},
	"IP_NODEFRAG":              {SOL_IP, IP_NODEFRAG},
	"IP_CHECKSUM":              {SOL_IP, IP_CHECKSUM},
	"IP_BIND_ADDRESS_NO_PORT":  {SOL_IP, IP_BIND_ADDRESS_NO_PORT},
	"IP_RECVFRAGSIZE":          {SOL_IP, IP_RECVFRAGSIZE},
	"IP_RECVERR_RFC4884":       {SOL_IP, IP_RECVERR_RFC4884},
	"IP_MULTICAST_IF":          {SOL_IP, IP_MULTICAST_IF},
	"IP_MULTICAST_TTL":         {SOL_IP, IP_MULTICAST_TTL},
	"IP_MULTICAST_LOOP":        {SOL_IP, IP_MULTICAST_LOOP},
	"IP_ADD_MEMBERSHIP":        {SOL_IP, IP_ADD_MEMBERSHIP},
	"IP_DROP_MEMBERSHIP":       {SOL_IP, IP_DROP_MEMBERSHIP},
	"IP_MULTICAST_ALL":         {SOL_IP, IP_MULTICAST_ALL},
	"IP_UNICAST_IF":            {SOL_IP, IP_UNICAST_IF},
	"IP_LOCAL_PORT_RANGE":      {SOL_IP, IP_LOCAL_PORT_RANGE},
	"IPV6_ADDRFORM":            {SOL_IPV6, IPV6_ADDRFORM},
	"IPV6_2292PKTINFO":         {SOL_IPV6, IPV6_2292PKTINFO},
	"IPV6_2292HOPOPTS":         {SOL_IPV6, IPV6_2292HOPOPTS},
	"IPV6_2292DSTOPTS":         {SOL_IPV6, IPV6_2292DSTOPTS},
	"IPV6_2292RTHDR":           {SOL_IPV6, IPV6_2292RTHDR},
	"IPV6_2292PKTOPTIONS":      {SOL_IPV6, IPV6_2292PKTOPTIONS},
	"IPV6_2292HOPLIMIT":        {SOL_IPV6, IPV6_2292HOPLIMIT},
	"IPV6_FLOWINFO":            {SOL_IPV6, IPV6_FLOWINFO},
	"IPV6_UNICAST_HOPS":        {SOL_IPV6, IPV6_UNICAST_HOPS},
	"IPV6_MULTICAST_IF":        {SOL_IPV6, IPV6_MULTICAST_IF},
	"IPV6_MULTICAST_HOPS":      {SOL_IPV6, IPV6_MULTICAST_HOPS},
	"IPV6_MULTICAST_LOOP":      {SOL_IPV6, IPV6_MULTICAST_LOOP},
	"IPV6_ADD_MEMBERSHIP":      {SOL_IPV6, IPV6_ADD_MEMBERSHIP},
	"IPV6_DROP_MEMBERSHIP":     {SOL_IPV6, IPV6_DROP_MEMBERSHIP},
	"IPV6_ROUTER_ALERT":        {SOL_IPV6, IPV6_ROUTER_ALERT},
	"IPV6_MTU_DISCOVER":        {SOL_IPV6, IPV6_MTU_DISCOVER},
	"IPV6_MTU":                 {SOL_IPV6, IPV6_MTU},
	"IPV6_RECVERR":             {SOL_IPV6, IPV6_RECVERR},
	"IPV6_V6ONLY":              {SOL_IPV6, IPV6_V6ONLY},
	"IPV6_RECVERR_RFC4884":     {SOL_IPV6, IPV6_RECVERR_RFC4884},
	"IPV6_FLOWLABEL_MGR":       {SOL_IPV6, IPV6_FLOWLABEL_MGR},
	"IPV6_FLOWINFO_SEND":       {SOL_IPV6, IPV6_FLOWINFO_SEND},
	"IPV6_RECVPKTINFO":         {SOL_IPV6, IPV6_RECVPKTINFO},
	"IPV6_PKTINFO":             {SOL_IPV6, IPV6_PKTINFO},
	"IPV6_RECVHOPLIMIT":        {SOL_IPV6, IPV6_RECVHOPLIMIT},
	"IPV6_RECVHOPOPTS":         {SOL_IPV6, IPV6_RECVHOPOPTS},
	"IPV6_HOPOPTS":             {SOL_IPV6, IPV6_HOPOPTS},
	"IPV6_RECVRTHDR":           {SOL_IPV6, IPV6_RECVRTHDR},
	"IPV6_RTHDR":               {SOL_IPV6, IPV6_RTHDR},
	"IPV6_RECVDSTOPTS":         {SOL_IPV6, IPV6_RECVDSTOPTS},
	"IPV6_DSTOPTS":             {SOL_IPV6, IPV6_DSTOPTS},
	"IPV6_RECVPATHMTU":         {SOL_IPV6, IPV6_RECVPATHMTU},
	"IPV6_DONTFRAG":            {SOL_IPV6, IPV6_DONTFRAG},
	"IPV6_RECVTCLASS":          {SOL_IPV6, IPV6_RECVTCLASS},
	"IPV6_TCLASS":              {SOL_IPV6, IPV6_TCLASS},
	"IPV6_AUTOFLOWLABEL":       {SOL_IPV6, IPV6_AUTOFLOWLABEL},
	"IPV6_ADDR_PREFERENCES":    {SOL_IPV6, IPV6_ADDR_PREFERENCES},
	"IPV6_MINHOPCOUNT":         {SOL_IPV6, IPV6_MINHOPCOUNT},
	"IPV6_RECVORIGDSTADDR":     {SOL_IPV6, IPV6_RECVORIGDSTADDR},
	"IPV6_TRANSPARENT":         {SOL_IPV6, IPV6_TRANSPARENT},
	"IPV6_UNICAST_IF":          {SOL_IPV6, IPV6_UNICAST_IF},
	"IPV6_RECVFRAGSIZE":        {SOL_IPV6, IPV6_RECVFRAGSIZE},
	"IPV6_FREEBIND":            {SOL_IPV6, IPV6_FREEBIND},
	"TCP_NODELAY":              {SOL_TCP, TCP_NODELAY},
	"TCP_MAXSEG":               {SOL_TCP, TCP_MAXSEG},
	"TCP_CORK":                 {SOL_TCP, TCP_CORK},
	"TCP_KEEPIDLE":             {SOL_TCP, TCP_KEEPIDLE},
	"TCP_KEEPINTVL":            {SOL_TCP, TCP_KEEPINTVL},
	"TCP_KEEPCNT":              {SOL_TCP, TCP_KEEPCNT},
	"TCP_SYNCNT":               {SOL_TCP, TCP_SYNCNT},
	"TCP_LINGER2":              {SOL_TCP, TCP_LINGER2},
	"TCP_DEFER_ACCEPT":         {SOL_TCP, TCP_DEFER_ACCEPT},
	"TCP_WINDOW_CLAMP":         {SOL_TCP, TCP_WINDOW_CLAMP},
	"TCP_INFO":                 {SOL_TCP, TCP_INFO},
	"TCP_QUICKACK":             {SOL_TCP, TCP_QUICKACK},
	"TCP_CONGESTION":           {SOL_TCP, TCP_CONGESTION},
	"TCP_MD5SIG":               {SOL_TCP, TCP_MD5SIG},
	"TCP_THIN_LINEAR_TIMEOUTS": {SOL_TCP, TCP_THIN_LINEAR_TIMEOUTS},
	"TCP_THIN_DUPACK":          {SOL_TCP, TCP_THIN_DUPACK},
	"TCP_USER_TIMEOUT":         {SOL_TCP, TCP_USER_TIMEOUT},
	"TCP_REPAIR":               {SOL_TCP, TCP_REPAIR},
	"TCP_REPAIR_QUEUE":         {SOL_TCP, TCP_REPAIR_QUEUE},
	"TCP_QUEUE_SEQ":            {SOL_TCP, TCP_QUEUE_SEQ},
	"TCP_REPAIR_OPTIONS":       {SOL_TCP, TCP_REPAIR_OPTIONS},
	"TCP_FASTOPEN":             {SOL_TCP, TCP_FASTOPEN},
	"TCP_TIMESTAMP":            {SOL_TCP, TCP_TIMESTAMP},
	"TCP_NOTSENT_LOWAT":        {SOL_TCP, TCP_NOTSENT_LOWAT},
	"TCP_CC_INFO":              {SOL_TCP, TCP_CC_INFO},
	"TCP_SAVE_SYN":             {SOL_TCP, TCP_SAVE_SYN},
	"TCP_REPAIR_WINDOW":        {SOL_TCP, TCP_REPAIR_WINDOW},
	"TCP_FASTOPEN_CONNECT":     {SOL_TCP, TCP_FASTOPEN_CONNECT},
	"TCP_ULP":                  {SOL_TCP, TCP_ULP},
	"TCP_MD5SIG_EXT":           {SOL_TCP, TCP_MD5SIG_EXT},
	"TCP_FASTOPEN_KEY":         {SOL_TCP, TCP_FASTOPEN_KEY},
	"TCP_FASTOPEN_NO_COOKIE":   {SOL_TCP, TCP_FASTOPEN_NO_COOKIE},
	"TCP_INQ":                  {SOL_TCP, TCP_INQ},
	"TCP_TX_DELAY":             {SOL_TCP, TCP_TX_DELAY},
	"TCP_IS_MPTCP":             {SOL_TCP, TCP_IS_MPTCP},
	"MPTCP_INFO":               {SOL_MPTCP, MPTCP_INFO},
	"MPTCP_TCPINFO":            {SOL_MPTCP, MPTCP_TCPINFO},
	"MPTCP_SUBFLOW_ADDRS":      {SOL_MPTCP, MPTCP_SUBFLOW_ADDRS},
	"MPTCP_FULL_INFO":          {SOL_MPTCP, MPTCP_FULL_INFO},
}

var optionNames = func() map[Option]string {
	res := make(map[Option]string, len(optionsByName))
	for n, o := range optionsByName {
		res[o] = n
	}
	return res
}()

// LevelNameは、レベルの名前を返却します。未知のレベルは数値で表します。
func LevelName(level int) string {
	if n, ok := levelNames[level]; ok {
		return n
	}
	return fmt.Sprintf("level(%d)", level)
}

// OptionNameは、オプションの名前を返却します。未知のオプションは数値で表します。
func OptionName(level, name int) string {
	if n, ok := optionNames[Option{Level: level, Name: name}]; ok {
		return n
	}
	return fmt.Sprintf("%s(%d)", LevelName(level), name)
}

// LookupOptionは、"TCP_NODELAY" のような名前からオプションを検索します。
func LookupOption(name string) (Option, bool) {
	o, ok := optionsByName[name]
	return o, ok
}
