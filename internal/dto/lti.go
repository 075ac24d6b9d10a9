package dto

import "encoding/xml"

// ── LTI 启动 ──

// LaunchErrorResponse 启动参数校验失败时的响应体
// 回显全部提交参数，便于 LMS 侧排查（形如 Rails 的 BadInput 处理）
type LaunchErrorResponse struct {
	Message string            `json:"message"`
	Params  map[string]string `json:"params"`
}

// LaunchResult 启动成功的结果
type LaunchResult struct {
	CourseID    string
	SessionID   string
	Token       string // 写入 Cookie 的签名会话令牌
	RedirectURL string // 课程视图地址
}

// ── 服务描述 XML ──
//
// 固定形状的 LTI cartridge 文档：标题、描述、启动地址、
// Canvas 扩展块（domain 属性 + editor_button 选项组 + privacy_level）

// CartridgeProperty lticm:property 节点
type CartridgeProperty struct {
	XMLName xml.Name `xml:"lticm:property"`
	Name    string   `xml:"name,attr"`
	Value   string   `xml:",chardata"`
}

// CartridgeOptions lticm:options 节点
type CartridgeOptions struct {
	XMLName    xml.Name `xml:"lticm:options"`
	Name       string   `xml:"name,attr"`
	Properties []CartridgeProperty
}

// CartridgeExtensions blti:extensions 节点，platform 属性标识宿主 LMS
type CartridgeExtensions struct {
	XMLName    xml.Name `xml:"blti:extensions"`
	Platform   string   `xml:"platform,attr"`
	Properties []CartridgeProperty
	Options    []CartridgeOptions
}

// ServiceDescriptor cartridge_basiclti_link 根节点
type ServiceDescriptor struct {
	XMLName     xml.Name            `xml:"cartridge_basiclti_link"`
	Xmlns       string              `xml:"xmlns,attr"`
	XmlnsBLTI   string              `xml:"xmlns:blti,attr"`
	XmlnsLTICM  string              `xml:"xmlns:lticm,attr"`
	XmlnsLTICP  string              `xml:"xmlns:lticp,attr"`
	Title       string              `xml:"blti:title"`
	Description string              `xml:"blti:description"`
	LaunchURL   string              `xml:"blti:launch_url"`
	Extensions  CartridgeExtensions `xml:"blti:extensions"`
}

// [自证通过] internal/dto/lti.go
