package packagecustomer

import "errors"

var (
	// ErrPackageCustomerNotFound возвращается, когда покупка пакета не найдена
	ErrPackageCustomerNotFound = errors.New("packagecustomer.repository: package customer not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("packagecustomer.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("packagecustomer.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("packagecustomer.repository: failed to scan row")
)
