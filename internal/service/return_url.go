package service

import (
	"fmt"
	"net/url"
	"strings"
)

// ── Return-to-LMS 重定向地址构造 ──
//
// 查询参数固定为 return_type=iframe、url=<内容地址>、width=100%、height=300；
// 若返回地址本身已带查询串则用 & 续接，保证最终地址中只出现一个 ?

// BuildReturnURL 构造交还 LMS 内容选择流程的重定向地址
func BuildReturnURL(returnURL, contentURL string) string {
	q := url.Values{}
	q.Set("return_type", ReturnTypeIframe)
	q.Set("url", contentURL)
	q.Set("width", "100%")
	q.Set("height", "300")

	sep := "?"
	if strings.Contains(returnURL, "?") {
		sep = "&"
	}
	return returnURL + sep + q.Encode()
}

// CourseViewURL 课程视图地址（启动重定向与 return-to-lms 的内容地址都指向它）
func CourseViewURL(baseURL, courseID string) string {
	return fmt.Sprintf("%s/api/v1/courses/%s", strings.TrimRight(baseURL, "/"), courseID)
}
