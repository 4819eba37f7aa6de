package repository

import "errors"

// BusinessError 预期内的业务失败
// 重名、引用不存在、删除自己的账号等情况统一以该类型返回给 UI 层，
// 其余错误原样向上传播，由顶层统一处理
type BusinessError struct {
	Reason string
}

func (e *BusinessError) Error() string {
	return e.Reason
}

// Business 创建一个业务失败
func Business(reason string) error {
	return &BusinessError{Reason: reason}
}

// IsBusiness 判断错误是否为业务失败
func IsBusiness(err error) bool {
	var be *BusinessError
	return errors.As(err, &be)
}
