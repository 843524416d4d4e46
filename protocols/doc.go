// Package protocols 使用 fieldkit 描述几个常见的网络协议头
// 包含 IPv4、ICMP、NTP 和 DNS，以及地址和域名两种自定义字段
//
// Package protocols describes a few well known protocol headers with
// fieldkit templates: IPv4, ICMP, NTP and DNS. It also shows how to write
// custom fields (AddressField, DomainNameField) that take part in packets
// exactly like the built-in ones.
//
// The templates are illustrations of the library. They do not implement
// protocol state machines and do not send anything on the network.
package protocols
